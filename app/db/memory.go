package db

import "sync"

// InMemoryCache keeps pages for the lifetime of a single run.
type InMemoryCache struct {
	pages map[string][]byte
	mx    sync.RWMutex
}

func (c *InMemoryCache) Get(url string) ([]byte, error) {
	c.mx.RLock()
	defer c.mx.RUnlock()
	body, ok := c.pages[url]
	if !ok {
		return nil, ErrNotFound
	}
	return body, nil
}

func (c *InMemoryCache) Save(url string, body []byte) error {
	c.mx.Lock()
	defer c.mx.Unlock()
	c.pages[url] = body
	return nil
}

func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{pages: make(map[string][]byte)}
}
