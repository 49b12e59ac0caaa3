package report

// NoData etiqueta cuando no hay registros.
const NoData = "No hay datos"

// DefaultRankLimit entradas de los rankings de clientes y proveedores.
const DefaultRankLimit = 6

// EntityRef referencia de un registro a una entidad. Key agrupa (id);
// Label es lo que se muestra. Key vacía agrupa por Label.
type EntityRef struct {
	Key   string
	Label string
}

// RankEntry entidad y número de apariciones.
type RankEntry struct {
	Label string `json:"nombre"`
	Count int    `json:"cantidad"`
}

// RankByFrequency cuenta apariciones por entidad, de mayor a menor. Los empates
// conservan el orden de primera aparición. limit <= 0 usa DefaultRankLimit.
func RankByFrequency(refs []EntityRef, limit int) []RankEntry {
	if limit <= 0 {
		limit = DefaultRankLimit
	}
	pos := map[string]int{}
	var entries []RankEntry
	for _, r := range refs {
		k := r.Key
		if k == "" {
			k = r.Label
		}
		i, ok := pos[k]
		if !ok {
			i = len(entries)
			pos[k] = i
			entries = append(entries, RankEntry{Label: r.Label})
		}
		entries[i].Count++
	}

	// insertion sort: estable y las listas son cortas
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && entries[j].Count > entries[j-1].Count; j-- {
			entries[j], entries[j-1] = entries[j-1], entries[j]
		}
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// MostFrequent etiqueta de la entidad más frecuente o NoData.
func MostFrequent(refs []EntityRef) string {
	top := RankByFrequency(refs, 1)
	if len(top) == 0 {
		return NoData
	}
	return top[0].Label
}
