// Package report contiene los cálculos de la vista de reportes: sumas por periodo,
// rankings por frecuencia y métricas de un solo valor. Todas son funciones puras sobre
// listas ya obtenidas del backend.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Granularity periodo del gráfico.
type Granularity int

const (
	LastThreeMonths Granularity = iota // 3 buckets mensuales
	LastThirtyDays                     // 30 buckets diarios
)

// Valores aceptados en ?periodo=.
const (
	PeriodoTresMeses   = "3meses"
	PeriodoTreintaDias = "30dias"
)

// ParseGranularity "3meses" (o vacío) o "30dias".
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", PeriodoTresMeses:
		return LastThreeMonths, nil
	case PeriodoTreintaDias:
		return LastThirtyDays, nil
	default:
		return 0, fmt.Errorf("periodo inválido %q: use %s o %s", s, PeriodoTresMeses, PeriodoTreintaDias)
	}
}

func (g Granularity) String() string {
	if g == LastThirtyDays {
		return PeriodoTreintaDias
	}
	return PeriodoTresMeses
}

// DatedValue registro con fecha y valor a sumar. Fecha cero = se ignora.
type DatedValue struct {
	Date  time.Time
	Value decimal.Decimal
}

// BucketPoint punto del gráfico.
type BucketPoint struct {
	Label string          `json:"periodo"`
	Value decimal.Decimal `json:"valor"`
}

var meses = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// MonthLabel etiqueta del mes, ej. "Octubre de 2026".
func MonthLabel(t time.Time) string {
	// un Caser no se comparte entre goroutines
	return fmt.Sprintf("%s de %d", cases.Title(language.Spanish).String(meses[t.Month()-1]), t.Year())
}

// DayLabel etiqueta del día, ej. "19/10".
func DayLabel(t time.Time) string {
	return t.Format("02/01")
}

// SumByBucket suma los registros por mes o por día, del más antiguo al más reciente
// (el último bucket contiene now). Los buckets sin registros valen 0.
func SumByBucket(records []DatedValue, g Granularity, now time.Time) []BucketPoint {
	loc := now.Location()
	var (
		n     int
		start func(i int) time.Time
		key   func(t time.Time) string
		label func(t time.Time) string
	)
	switch g {
	case LastThirtyDays:
		n = 30
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
		start = func(i int) time.Time { return today.AddDate(0, 0, -i) }
		key = func(t time.Time) string { return t.Format("2006-01-02") }
		label = DayLabel
	default:
		n = 3
		month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		start = func(i int) time.Time { return month.AddDate(0, -i, 0) }
		key = func(t time.Time) string { return t.Format("2006-01") }
		label = MonthLabel
	}

	points := make([]BucketPoint, n)
	index := make(map[string]int, n)
	for i := n - 1; i >= 0; i-- {
		pos := n - 1 - i
		b := start(i)
		points[pos] = BucketPoint{Label: label(b), Value: decimal.Zero}
		index[key(b)] = pos
	}

	for _, r := range records {
		if r.Date.IsZero() {
			continue
		}
		if pos, ok := index[key(r.Date.In(loc))]; ok {
			points[pos].Value = points[pos].Value.Add(r.Value)
		}
	}
	return points
}
