package rankrpc

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
)

func TestPartialStructRoundTrip(t *testing.T) {
	want := Partial{
		Redshifts: []float64{0, 0.5, 1},
		Sum:       []float64{1.1, 2.2, 3.3},
		SumSq:     []float64{1.21, 4.84, 10.89},
		Count:     []int64{4, 5, 6},
	}
	s, err := want.ToStruct()
	require.NoError(t, err)

	got, err := PartialFromStruct(s)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSubmitOverGRPC(t *testing.T) {
	listener := bufconn.Listen(1024 * 1024)
	server := grpc.NewServer()

	var mu sync.Mutex
	var accumulated []Partial
	Register(server, &Reducer{
		Accumulate: func(p Partial) {
			mu.Lock()
			defer mu.Unlock()
			accumulated = append(accumulated, p)
		},
	})

	go func() {
		_ = server.Serve(listener)
	}()
	defer server.Stop()

	dialer := func(context.Context, string) (net.Conn, error) { return listener.Dial() }
	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(dialer),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	want := Partial{Redshifts: []float64{0, 1}, Sum: []float64{1, 2}, SumSq: []float64{1, 4}, Count: []int64{1, 1}}
	require.NoError(t, Submit(ctx, conn, want))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, accumulated, 1)
	assert.Equal(t, want, accumulated[0])
}
