package matcher

import "github.com/kailas-cloud/dnamatch/internal/domain/search/result"

// searchRequest is the wire body sent to the matching service.
type searchRequest struct {
	QuerySequence string `json:"query_sequence"`
	K             int    `json:"k"`
}

type headerInfo struct {
	PrimaryID string `json:"primary_id"`
	Kingdom   string `json:"kingdom"`
	Phylum    string `json:"phylum"`
	Class     string `json:"class_"`
	Order     string `json:"order"`
	Family    string `json:"family"`
	Genus     string `json:"genus"`
	Species   string `json:"species"`
	OtherInfo string `json:"other_info"`
}

type animalResult struct {
	HeaderInfo      headerInfo `json:"header_info"`
	Sequence        string     `json:"sequence"`
	SimilarityScore float64    `json:"similarity_score"`
}

// searchResponse is the wire body returned by the matching service.
// Taxonomy fields may be null; they decode as empty strings.
type searchResponse struct {
	Results       *[]animalResult `json:"results"`
	ExecutionTime float64         `json:"execution_time"`
}

func (r *searchResponse) toDomain() result.Response {
	var results []animalResult
	if r.Results != nil {
		results = *r.Results
	}
	out := make([]result.Result, 0, len(results))
	for _, a := range results {
		h := a.HeaderInfo
		out = append(out, result.New(result.HeaderInfo{
			PrimaryID: h.PrimaryID,
			Kingdom:   h.Kingdom,
			Phylum:    h.Phylum,
			Class:     h.Class,
			Order:     h.Order,
			Family:    h.Family,
			Genus:     h.Genus,
			Species:   h.Species,
			OtherInfo: h.OtherInfo,
		}, a.Sequence, a.SimilarityScore))
	}
	return result.NewResponse(out, r.ExecutionTime)
}
