package caches

import (
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
)

// TableHandCache maps a table to the id of its latest hand. Old tables fall
// out once the cache is full.
type TableHandCache struct {
	tableToHand *lru.Cache
}

func NewTableHandCache(size int) (*TableHandCache, error) {
	tableToHand, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to initialize tableToHand cache")
	}
	return &TableHandCache{
		tableToHand: tableToHand,
	}, nil
}

func (c *TableHandCache) Set(tableID string, handID string) {
	if tableID == "" || handID == "" {
		return
	}
	c.tableToHand.Add(tableID, handID)
}

func (c *TableHandCache) Get(tableID string) (string, bool) {
	v, exists := c.tableToHand.Get(tableID)
	if !exists {
		return "", false
	}
	return v.(string), true
}

func (c *TableHandCache) Len() int {
	return c.tableToHand.Len()
}
