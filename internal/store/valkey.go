package store

import (
	"context"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"
)

// ValkeyStore implements Store against a Valkey/Redis-compatible server.
// Tables map to hashes, lists to RPUSH lists, scalars to plain keys.
type ValkeyStore struct {
	client valkey.Client
}

// NewValkeyStore connects to the given address and verifies the connection
// with a ping before returning.
func NewValkeyStore(addr, password string, db int) (*ValkeyStore, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress:      []string{addr},
		Password:         password,
		SelectDB:         db,
		ConnWriteTimeout: 5 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("create valkey client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping valkey at %s: %w", addr, err)
	}

	return &ValkeyStore{client: client}, nil
}

func (s *ValkeyStore) FieldExists(ctx context.Context, table, field string) (bool, error) {
	res := s.client.Do(ctx, s.client.B().Hexists().Key(table).Field(field).Build())
	if err := res.Error(); err != nil {
		return false, fmt.Errorf("hexists %s: %w", table, err)
	}

	ok, err := res.AsBool()
	if err != nil {
		return false, fmt.Errorf("hexists %s result: %w", table, err)
	}
	return ok, nil
}

func (s *ValkeyStore) SetField(ctx context.Context, table, field, value string) error {
	cmd := s.client.B().Hset().Key(table).FieldValue().FieldValue(field, value).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("hset %s: %w", table, err)
	}
	return nil
}

func (s *ValkeyStore) AppendToList(ctx context.Context, key, value string) error {
	cmd := s.client.B().Rpush().Key(key).Element(value).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("rpush %s: %w", key, err)
	}
	return nil
}

func (s *ValkeyStore) SetScalar(ctx context.Context, key, value string) error {
	cmd := s.client.B().Set().Key(key).Value(value).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *ValkeyStore) Close() error {
	s.client.Close()
	return nil
}
