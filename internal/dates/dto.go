package dates

// EntryResponse is the JSON shape of an entry.
type EntryResponse struct {
	Entry
	ScheduledDate string `json:"scheduledDate"`
}

func toResponse(e Entry) EntryResponse {
	return EntryResponse{Entry: e, ScheduledDate: e.ScheduledDate.Format(DateLayout)}
}

func toResponses(entries []Entry) []EntryResponse {
	out := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toResponse(e))
	}
	return out
}
