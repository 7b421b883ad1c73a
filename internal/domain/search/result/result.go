package result

// HeaderInfo is the taxonomic record attached to a reference sequence.
// All fields are free text; nothing here is validated.
type HeaderInfo struct {
	PrimaryID string
	Kingdom   string
	Phylum    string
	Class     string
	Order     string
	Family    string
	Genus     string
	Species   string
	OtherInfo string
}

// Result is a single candidate match.
type Result struct {
	header   HeaderInfo
	sequence string
	score    float64
}

// New creates a candidate match.
func New(header HeaderInfo, sequence string, score float64) Result {
	return Result{header: header, sequence: sequence, score: score}
}

// Header returns the taxonomic record.
func (r *Result) Header() HeaderInfo { return r.header }

// Sequence returns the matched reference sequence.
func (r *Result) Sequence() string { return r.sequence }

// SimilarityScore returns the match fraction as reported by the service.
// Values outside [0, 1] are passed through untouched.
func (r *Result) SimilarityScore() float64 { return r.score }

// Response is the outcome of one successful search.
type Response struct {
	results       []Result
	executionTime float64
}

// NewResponse creates a response. Result order is kept as given.
func NewResponse(results []Result, executionTime float64) Response {
	if results == nil {
		results = []Result{}
	}
	return Response{results: results, executionTime: executionTime}
}

// Results returns the candidates in server order.
func (r *Response) Results() []Result { return r.results }

// ExecutionTime returns the service-reported duration in seconds.
func (r *Response) ExecutionTime() float64 { return r.executionTime }

// Len returns the number of candidates.
func (r *Response) Len() int { return len(r.results) }
