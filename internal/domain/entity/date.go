package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// LayoutDate formato de fecha del backend (LocalDate).
const LayoutDate = "2006-01-02"

// Date fecha tal como la serializa el backend: "2026-10-19", "2026-10-19T08:30:00"
// o, con Jackson sin módulo de fechas, [2026,10,19(,h,m,s)]. null o "" = cero.
type Date struct {
	time.Time
}

// NewDate construye una fecha a medianoche local.
func NewDate(y int, m time.Month, d int) Date {
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.Local)}
}

// DateOf trunca t al día (hora local).
func DateOf(t time.Time) Date {
	t = t.In(time.Local)
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate acepta los mismos formatos que UnmarshalJSON en forma de texto.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02T15:04:05", "2006-01-02T15:04", LayoutDate} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return Date{t}, nil
		}
	}
	return Date{}, fmt.Errorf("fecha inválida: %q", s)
}

// Day devuelve la parte de fecha "YYYY-MM-DD" (vacía si es cero).
func (d Date) Day() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(LayoutDate)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Day())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*d = Date{}
		return nil
	}
	if b[0] == '[' {
		var parts []int
		if err := json.Unmarshal(b, &parts); err != nil {
			return fmt.Errorf("fecha inválida: %s", b)
		}
		if len(parts) < 3 {
			return fmt.Errorf("fecha inválida: %s", b)
		}
		for len(parts) < 6 {
			parts = append(parts, 0)
		}
		*d = Date{time.Date(parts[0], time.Month(parts[1]), parts[2], parts[3], parts[4], parts[5], 0, time.Local)}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("fecha inválida: %s", b)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
