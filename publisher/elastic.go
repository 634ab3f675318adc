/*
Copyright 2023 Alexander Bartolomey (github@alexanderbartolomey.de)

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/flowkit/ipfixd"
	"github.com/go-logr/logr"
)

// DefaultIndex is the index name Flow documents are bulk-indexed into
// when ElasticConfig.Index is left empty.
const DefaultIndex = "ipfix-flows"

// ElasticConfig configures the Elastic publisher.
type ElasticConfig struct {
	// Addresses lists the Elasticsearch node URLs to connect to.
	Addresses []string
	// Index is the target index name; defaults to DefaultIndex.
	Index string
}

// Elastic bulk-indexes Flow documents into Elasticsearch via
// esutil.BulkIndexer, which batches and flushes documents on a time and
// size budget rather than issuing one HTTP request per Flow.
type Elastic struct {
	indexer esutil.BulkIndexer
	index   string
	log     logr.Logger
}

var _ Publisher = (*Elastic)(nil)

// NewElastic constructs an Elastic publisher. It builds the underlying
// *elasticsearch.Client and the bulk indexer eagerly but performs no
// network I/O until the first Publish call.
func NewElastic(cfg ElasticConfig, log logr.Logger) (*Elastic, error) {
	index := cfg.Index
	if index == "" {
		index = DefaultIndex
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
	})
	if err != nil {
		return nil, fmt.Errorf("building elasticsearch client: %w", err)
	}

	log = log.WithName("publisher.elastic")
	indexer, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:  index,
		Client: client,
		OnError: func(ctx context.Context, err error) {
			log.Error(err, "bulk indexer error")
		},
	})
	if err != nil {
		return nil, fmt.Errorf("building bulk indexer: %w", err)
	}

	return &Elastic{indexer: indexer, index: index, log: log}, nil
}

func (e *Elastic) Publish(ctx context.Context, flow *ipfix.Flow) error {
	b, err := json.Marshal(flow)
	if err != nil {
		return fmt.Errorf("marshal flow: %w", err)
	}

	return e.indexer.Add(ctx, esutil.BulkIndexerItem{
		Action: "index",
		Body:   bytes.NewReader(b),
		OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
			if err != nil {
				e.log.Error(err, "failed to index flow")
				return
			}
			e.log.Error(fmt.Errorf("%s: %s", res.Error.Type, res.Error.Reason), "failed to index flow")
		},
	})
}

func (e *Elastic) Close(ctx context.Context) error {
	return e.indexer.Close(ctx)
}
