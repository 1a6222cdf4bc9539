package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformed marks a payload that could not be decoded. Callers are
// expected to drop such messages instead of failing the loop.
var ErrMalformed = errors.New("malformed message payload")

func JSONHandler[M any](handle func(context.Context, []byte, *M) error) Handler {
	return func(ctx context.Context, key, value []byte) error {
		var msg M
		if err := json.Unmarshal(value, &msg); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return handle(ctx, key, &msg)
	}
}
