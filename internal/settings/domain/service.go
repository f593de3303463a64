package domain

import "context"

type Service interface {
	Get(ctx context.Context, key string) (Setting, error)
	Put(ctx context.Context, key, value string) (Setting, error)
	List(ctx context.Context) ([]Setting, error)
	ListCurrencies(ctx context.Context) ([]Currency, error)
}
