// Package localdex embeds the localdex search engine in a Go program,
// backed by Valkey or Redis with the search module and, optionally, a
// remote search tier.
//
// The client runs the same pipeline as the HTTP API: exact reference id
// lookup, then the remote backend, then a local fan-out across the five
// entity collections.
//
//	client, _ := localdex.New(ctx,
//	    localdex.WithRedis("localhost:6379", ""),
//	    localdex.WithElasticsearch([]string{"http://localhost:9200"}, "", "localdex-"),
//	)
//	defer client.Close()
//
//	shop, _ := client.Entities().Create(ctx, localdex.KindShop, localdex.EntityDraft{
//	    Name:     "Sharma Tea Stall",
//	    Category: "beverages",
//	    District: "Mandsaur",
//	})
//	fmt.Println(shop.ReferenceID) // SHP-MAN-001
//
//	res, _ := client.Search(ctx, localdex.SearchQuery{Term: "tea", Limit: 10})
//	for _, r := range res.Results {
//	    fmt.Println(r.ReferenceID, r.Name, r.Route)
//	}
package localdex
