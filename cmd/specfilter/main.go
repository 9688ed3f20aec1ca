// Command specfilter filters record datasets with specifications and moves them between record stores.
//
//	specfilter filter --records catalog.yaml --where color=green --where size=large
//	specfilter import --records catalog.yaml --store bolt --bolt-path records.db
//	specfilter filter --store bolt --bolt-path records.db --where 'size=small|large' --format json
//	specfilter demo
//	specfilter generate --count 10000 --output products.json
//	specfilter load --store postgres --rate 50 --duration 30s
//
// Every flag can also be set through the environment, e.g. SPECFILTER_POSTGRES_DSN or SPECFILTER_LOG_LEVEL.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
