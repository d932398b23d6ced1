package review

import "math"

const (
	MinRating     = 1
	MaxRating     = 5
	MaxTextLength = 1000

	// AnonymousAuthor substitui o nome do cliente em avaliações anônimas.
	AnonymousAuthor = "Anônimo"

	DefaultPageSize = 10
	MaxPageSize     = 50
)

// Target filtra por barbearia ou por barbeiro; só um dos dois é usado.
type Target struct {
	BarbershopID uint
	BarberID     uint
}

func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}

type Summary struct {
	Average      float64       `json:"average"`
	Total        int64         `json:"total"`
	Distribution map[int]int64 `json:"distribution"`
}

// Summarize calcula média (uma casa decimal) e distribuição de 1 a 5.
// Sem avaliações tudo fica zerado.
func Summarize(counts map[int]int64) Summary {
	out := Summary{Distribution: make(map[int]int64, MaxRating)}

	var sum int64
	for r := MinRating; r <= MaxRating; r++ {
		n := counts[r]
		out.Distribution[r] = n
		out.Total += n
		sum += int64(r) * n
	}

	if out.Total > 0 {
		out.Average = math.Round(float64(sum)/float64(out.Total)*10) / 10
	}
	return out
}
