package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/media"
)

// Uploader converte a imagem enviada para WebP e grava no storage.
type Uploader struct {
	storage media.Storage
	maxSide int
}

// NewUploader aceita storage nil: uploads ficam desabilitados.
func NewUploader(storage media.Storage, maxSide int) *Uploader {
	return &Uploader{storage: storage, maxSide: maxSide}
}

// save lê o campo "file" do multipart e devolve a URL pública.
func (u *Uploader) save(c *gin.Context, prefix string, ownerID uint) (string, bool) {
	if u == nil || u.storage == nil {
		httperr.Respond(c, httperr.Policy("uploads_disabled", "Envio de imagens não está habilitado."))
		return "", false
	}

	fh, err := c.FormFile("file")
	if err != nil {
		httperr.BadRequest(c, "missing_file", "Envie a imagem no campo 'file'.")
		return "", false
	}
	if fh.Size > media.MaxUploadBytes {
		httperr.BadRequest(c, "file_too_large", "Imagem maior que 5MB.")
		return "", false
	}

	f, err := fh.Open()
	if err != nil {
		httperr.BadRequest(c, "invalid_file", "Não foi possível ler o arquivo.")
		return "", false
	}
	defer f.Close()

	body, err := media.ToWebP(f, u.maxSide)
	if err != nil {
		httperr.Respond(c, err)
		return "", false
	}

	url, err := u.storage.Put(c.Request.Context(), media.ObjectKey(prefix, ownerID), "image/webp", body)
	if err != nil {
		httperr.Respond(c, err)
		return "", false
	}
	return url, true
}
