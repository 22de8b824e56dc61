package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
)

func main() {
	var (
		addr     = flag.String("addr", ":9000", "listen address")
		dataPath = flag.String("data", "data/songdb.json", "song bundle to serve")
	)
	flag.Parse()

	// serves the exported bundle at GET /songdb
	http.HandleFunc("/songdb", func(w http.ResponseWriter, r *http.Request) {
		b, err := os.ReadFile(*dataPath)
		if err != nil {
			http.Error(w, "cannot read bundle: "+err.Error(), http.StatusInternalServerError)
			return
		}
		// validate JSON so a bad file doesn't silently break clients
		var tmp any
		if err := json.Unmarshal(b, &tmp); err != nil {
			http.Error(w, "bundle invalid JSON: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(b)
	})

	log.Printf("mirror-server listening on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, nil))
}
