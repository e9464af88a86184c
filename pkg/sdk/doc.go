// Package vecrag embeds the vecrag document store in a Go program: the same
// ingestion and similarity query pipeline as the HTTP service, without HTTP.
//
//	client, err := vecrag.New(ctx,
//	    vecrag.WithValkey("redis://localhost:6379"),
//	    vecrag.WithKeyspace("rag", "docs"),
//	    vecrag.WithEmbedder(myEmbedder),
//	    vecrag.WithVectorDimensions(384),
//	)
//	defer client.Close()
//
//	_, _ = client.EnsureIndex(ctx)
//	res, _ := client.Insert(ctx,
//	    vecrag.Document{Text: "Valkey is a key-value store", Metadata: map[string]any{"lang": "en"}},
//	)
//	hits, _ := client.Query(ctx, "what is valkey?", 3)
package vecrag
