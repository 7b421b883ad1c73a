// Package dnamatch provides a Go client for a k-mer DNA matching service.
//
// The service compares a query sequence against a reference collection of
// animal sequences and returns the closest candidates ranked by similarity.
//
// # One-shot search
//
//	client, _ := dnamatch.New(dnamatch.WithEndpoint("http://127.0.0.1:8080/kmer_search"))
//	resp, err := client.Search(ctx, "ATGCGTACGTTAGC", 10)
//	for _, m := range resp.Matches {
//	    fmt.Println(m.Header.Species, m.Score)
//	}
//
// # Session lifecycle
//
// A Session tracks one search at a time through idle, searching, success and
// failed states, the way an interactive front end does:
//
//	s := client.NewSession()
//	_ = s.Submit(ctx, sequence, "10")
//	st, _ := s.Wait(ctx)
//	if st.Kind == dnamatch.StateFailed {
//	    log.Println(st.Message)
//	}
package dnamatch
