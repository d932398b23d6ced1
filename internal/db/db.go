package db

import (
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/barber-queue/internal/config"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

// Regras de concorrência garantidas pelo próprio banco. Os nomes são os que
// os repositórios traduzem para erros de negócio.
var constraints = []string{
	// chaves de idempotência passaram a ser únicas por cliente
	`DROP INDEX IF EXISTS idx_queue_entries_idempotency_key`,
	`DROP INDEX IF EXISTS idx_appointments_idempotency_key`,

	// no máximo uma sessão não encerrada por barbearia
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_work_sessions_active
		ON work_sessions (barbershop_id)
		WHERE status <> 'CLOSED'`,

	// no máximo um atendimento em curso por barbeiro
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_queue_entries_in_service
		ON queue_entries (barber_id)
		WHERE status = 'IN_SERVICE'`,

	// cliente em no máximo uma fila por vez
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_queue_entries_customer_active
		ON queue_entries (customer_id)
		WHERE status IN ('WAITING', 'IN_SERVICE')`,

	// uma avaliação por cliente para cada barbearia e cada barbeiro
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_reviews_customer_shop
		ON reviews (customer_id, barbershop_id)
		WHERE kind = 'SHOP'`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_reviews_customer_barber
		ON reviews (customer_id, barber_id)
		WHERE kind = 'BARBER'`,

	`CREATE UNIQUE INDEX IF NOT EXISTS ux_favorites_user_shop
		ON favorites (user_id, barbershop_id)
		WHERE barbershop_id IS NOT NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_favorites_user_barber
		ON favorites (user_id, barber_id)
		WHERE barber_id IS NOT NULL`,

	// busca de barbearias por nome
	`CREATE INDEX IF NOT EXISTS idx_barbershops_lower_name ON barbershops (LOWER(name))`,

	`CREATE EXTENSION IF NOT EXISTS btree_gist`,

	// agendamentos confirmados ou em andamento não se sobrepõem
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'ex_appointments_no_overlap') THEN
			ALTER TABLE appointments
				ADD CONSTRAINT ex_appointments_no_overlap
				EXCLUDE USING gist (
					barber_id WITH =,
					tstzrange(start_time, end_time, '[)') WITH &&
				)
				WHERE (status IN ('CONFIRMED', 'IN_PROGRESS'));
		END IF;
	END $$`,
}

func NewDB(cfg *config.Config) *gorm.DB {
	logLevel := gormlogger.Warn
	if cfg.Env == config.EnvLocal {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to get sql.DB")
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.Barbershop{},
		&models.User{},
		&models.Service{},
		&models.WorkingHours{},
		&models.WorkSession{},
		&models.QueueEntry{},
		&models.Appointment{},
		&models.AuditLog{},
		&models.Review{},
		&models.Favorite{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate")
	}

	for _, stmt := range constraints {
		if err := db.Exec(stmt).Error; err != nil {
			log.Fatal().Err(err).Msg("failed to apply constraint")
		}
	}

	db.Exec(`
        UPDATE barbershops
        SET timezone = 'America/Sao_Paulo'
        WHERE timezone IS NULL OR timezone = ''
    `)

	log.Info().Msg("database ready")
	return db
}
