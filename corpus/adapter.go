package corpus

import (
	"context"

	"github.com/shipq/proptest/proptest"
)

// Adapter exposes a Store as the corpus of proptest.Run.
type Adapter struct {
	Store Store
}

var _ proptest.Corpus = Adapter{}

func (a Adapter) Load(ctx context.Context, property string) ([][]byte, error) {
	entries, err := a.Store.Load(ctx, property)
	if err != nil {
		return nil, err
	}
	out := make([][]byte, len(entries))
	for i, e := range entries {
		out[i] = e.Choices
	}
	return out, nil
}

func (a Adapter) Save(ctx context.Context, property string, choices []byte) error {
	return a.Store.Save(ctx, NewEntry(property, choices))
}
