package domain

// Page é a paginação das listagens públicas; Number começa em 1.
type Page struct {
	Number int
	Size   int
}

// NewPage corrige valores fora da faixa em vez de recusar a requisição.
func NewPage(number, size, defaultSize, maxSize int) Page {
	if number < 1 {
		number = 1
	}
	switch {
	case size <= 0:
		size = defaultSize
	case size > maxSize:
		size = maxSize
	}
	return Page{Number: number, Size: size}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Slice aplica a página a uma lista já carregada.
func Slice[T any](items []T, p Page) []T {
	from := p.Offset()
	if from >= len(items) {
		return []T{}
	}
	to := from + p.Size
	if to > len(items) {
		to = len(items)
	}
	return items[from:to]
}
