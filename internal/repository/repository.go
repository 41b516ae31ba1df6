package repository

import (
	"github.com/ikram98ai/docgram/internal/repository/apiclient"
	"github.com/ikram98ai/docgram/internal/repository/querycache"
)

// Repository pairs the authoritative store (the remote API) with the local
// query cache the services read through and mutate optimistically.
type Repository struct {
	Remote *apiclient.Client
	Cache  *querycache.Cache
}

func New(remote *apiclient.Client, cache *querycache.Cache) *Repository {
	return &Repository{
		Remote: remote,
		Cache: cache,
	}
}
