package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConnectMongo_BadURI(t *testing.T) {
	_, err := ConnectMongo(context.Background(), "http://localhost:27017", time.Second)
	require.ErrorContains(t, err, "mongo connect")
}

func TestConnectMongo_Unreachable(t *testing.T) {
	_, err := ConnectMongo(context.Background(), "mongodb://127.0.0.1:1/?directConnection=true", 200*time.Millisecond)
	require.ErrorContains(t, err, "mongo ping")
}
