package meta

// Likelies holds the most common value of each set-level field across a
// track set, plus whether that value was unanimous. It approximates what the
// set's metadata "currently says" when individual tracks disagree.
type Likelies struct {
	Artist      string
	Album       string
	AlbumArtist string
	Year        int
	DiscTotal   int
	ReleaseID   string
	Label       string
	CatalogNum  string
	Country     string
	Disambig    string

	ArtistConsensus bool
	VALikely        bool
}

// ComputeLikelies extracts the likely current metadata for a track set. When
// there is an album-artist consensus, that value wins over the per-track
// artist plurality. VALikely is set when the artists disagree, the winning
// artist is a various-artists alias, or the set carries a compilation hint.
func ComputeLikelies(set TrackSet) Likelies {
	var l Likelies
	if len(set.Tracks) == 0 {
		return l
	}

	var artistOK bool
	l.Artist, artistOK = plurality(set.Tracks, func(t LocalTrack) string { return t.Artist })
	l.Album, _ = plurality(set.Tracks, func(t LocalTrack) string { return t.Album })
	l.Label, _ = plurality(set.Tracks, func(t LocalTrack) string { return t.Label })
	l.CatalogNum, _ = plurality(set.Tracks, func(t LocalTrack) string { return t.CatalogNum })
	l.Country, _ = plurality(set.Tracks, func(t LocalTrack) string { return t.Country })
	l.Disambig, _ = plurality(set.Tracks, func(t LocalTrack) string { return t.Disambig })
	l.ReleaseID, _ = plurality(set.Tracks, func(t LocalTrack) string { return t.ReleaseID })
	l.Year, _ = pluralityInt(set.Tracks, func(t LocalTrack) int { return t.Year })
	l.DiscTotal, _ = pluralityInt(set.Tracks, func(t LocalTrack) int { return t.DiscTotal })

	albumArtist, albumArtistOK := plurality(set.Tracks, func(t LocalTrack) string { return t.AlbumArtist })
	if set.AlbumArtist != "" {
		albumArtist = set.AlbumArtist
		albumArtistOK = true
	}
	l.AlbumArtist = albumArtist
	if albumArtistOK && albumArtist != "" {
		l.Artist = albumArtist
	}
	l.ArtistConsensus = artistOK

	compilation := set.Compilation
	for _, t := range set.Tracks {
		if t.Compilation {
			compilation = true
			break
		}
	}
	l.VALikely = !artistOK || IsVariousArtists(l.Artist) || compilation

	return l
}

// plurality returns the most common non-empty value and whether every track
// that declared the field agreed on it. Ties resolve to the value seen first.
func plurality(tracks []LocalTrack, get func(LocalTrack) string) (string, bool) {
	counts := make(map[string]int)
	var order []string
	total := 0
	for _, t := range tracks {
		v := get(t)
		if v == "" {
			continue
		}
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
		total++
	}
	best := ""
	bestCount := 0
	for _, v := range order {
		if counts[v] > bestCount {
			best, bestCount = v, counts[v]
		}
	}
	return best, total > 0 && bestCount == total
}

func pluralityInt(tracks []LocalTrack, get func(LocalTrack) int) (int, bool) {
	counts := make(map[int]int)
	var order []int
	total := 0
	for _, t := range tracks {
		v := get(t)
		if v == 0 {
			continue
		}
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
		total++
	}
	best, bestCount := 0, 0
	for _, v := range order {
		if counts[v] > bestCount {
			best, bestCount = v, counts[v]
		}
	}
	return best, total > 0 && bestCount == total
}
