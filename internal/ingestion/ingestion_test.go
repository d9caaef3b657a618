package ingestion

import (
	"context"
	"math/big"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"univ3-pool-lab/internal/domain"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func evAt(block uint64, logIndex uint32) *domain.Event {
	return &domain.Event{
		Meta: domain.EventMeta{
			ChainID:     1,
			BlockNumber: block,
			LogIndex:    logIndex,
			Timestamp:   int64(block) * 12,
			TxHash:      "0xabc",
		},
		Kind: domain.EventInitialize,
		Initialize: &domain.InitializeParams{
			SqrtPriceX96: big.NewInt(1),
		},
	}
}

func TestSortEvents(t *testing.T) {
	events := []*domain.Event{
		evAt(5, 2),
		evAt(3, 9),
		evAt(5, 0),
		evAt(1, 1),
	}
	SortEvents(events)

	require.Equal(t, uint64(1), events[0].Meta.BlockNumber)
	require.Equal(t, uint64(3), events[1].Meta.BlockNumber)
	require.Equal(t, uint64(5), events[2].Meta.BlockNumber)
	require.Equal(t, uint32(0), events[2].Meta.LogIndex)
	require.Equal(t, uint32(2), events[3].Meta.LogIndex)

	require.NoError(t, ValidateOrdering(events))
}

func TestValidateOrdering_Duplicate(t *testing.T) {
	events := []*domain.Event{evAt(2, 1), evAt(2, 1)}
	require.ErrorIs(t, ValidateOrdering(events), ErrInvalidOrdering)
}

// word renders a 256-bit ABI word, two's complement for negatives.
func word(v *big.Int) string {
	u := new(big.Int).Set(v)
	if u.Sign() < 0 {
		u.Add(u, new(big.Int).Lsh(big.NewInt(1), 256))
	}
	return u.Text(16)
}

func padWord(hex string) string {
	for len(hex) < 64 {
		hex = "0" + hex
	}
	return hex
}

func topicWord(v *big.Int) string {
	return "0x" + padWord(word(v))
}

func topicAddr(addr string) string {
	return "0x" + padWord(addr[2:])
}

func dataWords(words ...string) string {
	out := "0x"
	for _, w := range words {
		out += padWord(w)
	}
	return out
}

func TestDecodeLog_PoolCreated(t *testing.T) {
	token0 := "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2"
	token1 := "0x6b175474e89094c44da98b954eedeac495271d0f"
	pool := "0x60594a405d53811d3bc4766596efd80fd545a270"

	raw := &RawLog{
		Address: "0x1F98431c8aD98523631AE4a59f267346ea31F984",
		Topics: []string{
			topicPoolCreated,
			topicAddr(token0),
			topicAddr(token1),
			topicWord(big.NewInt(3000)),
		},
		Data:            dataWords(word(big.NewInt(60)), padWord(pool[2:])),
		BlockNumber:     "0x10",
		TransactionHash: "0xAA11",
		LogIndex:        "0x2",
	}

	ev, err := DecodeLog(1, raw)
	require.NoError(t, err)
	require.Equal(t, domain.EventPoolCreated, ev.Kind)
	require.Equal(t, uint64(16), ev.Meta.BlockNumber)
	require.Equal(t, uint32(2), ev.Meta.LogIndex)
	require.Equal(t, "0x1f98431c8ad98523631ae4a59f267346ea31f984", ev.Meta.Address)
	require.Equal(t, "0xaa11", ev.Meta.TxHash)
	require.Equal(t, token0, ev.PoolCreated.Token0)
	require.Equal(t, token1, ev.PoolCreated.Token1)
	require.Equal(t, int64(3000), ev.PoolCreated.Fee)
	require.Equal(t, pool, ev.PoolCreated.Pool)
}

func TestDecodeLog_Swap(t *testing.T) {
	sender := "0x1111111111111111111111111111111111111111"
	recipient := "0x2222222222222222222222222222222222222222"
	amount0 := new(big.Int).Mul(big.NewInt(1), big.NewInt(1e18))
	amount1 := new(big.Int).Neg(new(big.Int).Mul(big.NewInt(1600), big.NewInt(1e18)))
	sqrtPrice := new(big.Int).Lsh(big.NewInt(40), 96)

	raw := &RawLog{
		Address: "0x60594a405d53811d3bc4766596efd80fd545a270",
		Topics: []string{
			topicSwap,
			topicAddr(sender),
			topicAddr(recipient),
		},
		Data: dataWords(
			word(amount0),
			word(amount1),
			word(sqrtPrice),
			word(big.NewInt(1000)),
			word(big.NewInt(-887220)),
		),
		BlockNumber:     "0x64",
		TransactionHash: "0xbb",
		LogIndex:        "0x0",
	}

	ev, err := DecodeLog(1, raw)
	require.NoError(t, err)
	require.Equal(t, domain.EventSwap, ev.Kind)
	require.Equal(t, sender, ev.Swap.Sender)
	require.Equal(t, recipient, ev.Swap.Recipient)
	require.Equal(t, 0, ev.Swap.Amount0.Cmp(amount0))
	require.Equal(t, 0, ev.Swap.Amount1.Cmp(amount1))
	require.Equal(t, 0, ev.Swap.SqrtPriceX96.Cmp(sqrtPrice))
	require.Equal(t, 0, ev.Swap.Liquidity.Cmp(big.NewInt(1000)))
	require.Equal(t, int32(-887220), ev.Swap.Tick)
}

func TestDecodeLog_MintTickBoundaries(t *testing.T) {
	owner := "0x3333333333333333333333333333333333333333"
	sender := "0x4444444444444444444444444444444444444444"

	raw := &RawLog{
		Address: "0x60594a405d53811d3bc4766596efd80fd545a270",
		Topics: []string{
			topicMint,
			topicAddr(owner),
			topicWord(big.NewInt(-60000)),
			topicWord(big.NewInt(60000)),
		},
		Data: dataWords(
			padWord(sender[2:]),
			word(big.NewInt(1000)),
			word(big.NewInt(5)),
			word(big.NewInt(7)),
		),
		BlockNumber:     "0x65",
		TransactionHash: "0xcc",
		LogIndex:        "0x1",
	}

	ev, err := DecodeLog(1, raw)
	require.NoError(t, err)
	require.Equal(t, domain.EventMint, ev.Kind)
	require.Equal(t, owner, ev.Mint.Owner)
	require.Equal(t, sender, ev.Mint.Sender)
	require.Equal(t, int32(-60000), ev.Mint.TickLower)
	require.Equal(t, int32(60000), ev.Mint.TickUpper)
	require.Equal(t, 0, ev.Mint.Amount.Cmp(big.NewInt(1000)))
}

func TestDecodeLog_UppercaseHexNormalized(t *testing.T) {
	owner := "0x3333333333333333333333333333333333333333"

	raw := &RawLog{
		Address: "0x60594A405D53811D3BC4766596EFD80FD545A270",
		Topics: []string{
			topicBurn,
			"0x" + strings.ToUpper(topicAddr(owner)[2:]),
			topicWord(big.NewInt(-60)),
			topicWord(big.NewInt(60)),
		},
		Data: dataWords(
			word(big.NewInt(1)),
			word(big.NewInt(2)),
			word(big.NewInt(3)),
		),
		BlockNumber:     "0x66",
		TransactionHash: "0xdd",
		LogIndex:        "0x3",
	}

	ev, err := DecodeLog(1, raw)
	require.NoError(t, err)
	require.Equal(t, "0x60594a405d53811d3bc4766596efd80fd545a270", ev.Meta.Address)
	require.Equal(t, owner, ev.Burn.Owner)
}

func TestDecodeLog_MalformedHex(t *testing.T) {
	raw := &RawLog{
		Topics:          []string{topicInitialize},
		Data:            "0xnothex",
		BlockNumber:     "0x1",
		TransactionHash: "0x1",
		LogIndex:        "0x0",
	}
	_, err := DecodeLog(1, raw)
	require.Error(t, err)

	raw.Data = dataWords(word(big.NewInt(1)), word(big.NewInt(0)))
	raw.BlockNumber = "nothex"
	_, err = DecodeLog(1, raw)
	require.Error(t, err)
}

func TestDecodeLog_UnknownTopic(t *testing.T) {
	raw := &RawLog{
		Topics:          []string{"0xdeadbeef00000000000000000000000000000000000000000000000000000000"},
		Data:            "0x",
		BlockNumber:     "0x1",
		TransactionHash: "0x1",
		LogIndex:        "0x0",
	}
	_, err := DecodeLog(1, raw)
	require.ErrorIs(t, err, ErrUnknownTopic)
}

// stubSource feeds a prebuilt channel.
type stubSource struct {
	ch chan *domain.Event
}

func (s *stubSource) Subscribe(ctx context.Context) (<-chan *domain.Event, error) {
	return s.ch, nil
}

// recordingSink collects every processed event.
type recordingSink struct {
	mu     sync.Mutex
	events []*domain.Event
}

func (s *recordingSink) ProcessEvent(ctx context.Context, ev *domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

func TestRunnerOrdersOutOfOrderEvents(t *testing.T) {
	src := &stubSource{ch: make(chan *domain.Event, 64)}
	sink := &recordingSink{}

	runner, err := NewRunner(RunnerOptions{
		ChainID:        1,
		Source:         src,
		Sink:           sink,
		BlockLagWindow: 2,
		FlushInterval:  10 * time.Millisecond,
		Logger:         quietLogger(),
	})
	require.NoError(t, err)

	// Events arrive shuffled within the lag window.
	src.ch <- evAt(10, 1)
	src.ch <- evAt(10, 0)
	src.ch <- evAt(11, 0)
	src.ch <- evAt(9, 3)
	src.ch <- evAt(12, 2)
	src.ch <- evAt(12, 0)
	src.ch <- evAt(13, 0)
	close(src.ch)

	require.NoError(t, runner.Run(context.Background()))

	sink.mu.Lock()
	defer sink.mu.Unlock()
	require.Len(t, sink.events, 7)
	require.NoError(t, ValidateOrdering(sink.events))
	require.Equal(t, uint64(9), sink.events[0].Meta.BlockNumber)
	require.Equal(t, uint64(13), sink.events[6].Meta.BlockNumber)
}

func TestRunnerRequiresSourceAndSink(t *testing.T) {
	_, err := NewRunner(RunnerOptions{Sink: &recordingSink{}})
	require.Error(t, err)
	_, err = NewRunner(RunnerOptions{Source: &stubSource{}})
	require.Error(t, err)
}

func TestFileEventSourceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")

	events := []*domain.Event{
		{
			Meta: domain.EventMeta{ChainID: 1, BlockNumber: 7, LogIndex: 1, Timestamp: 84, TxHash: "0x2", TxFrom: "0xf2"},
			Kind: domain.EventSwap,
			Swap: &domain.SwapParams{
				Amount0:      big.NewInt(100),
				Amount1:      big.NewInt(-200),
				SqrtPriceX96: new(big.Int).Lsh(big.NewInt(40), 96),
				Liquidity:    big.NewInt(1000),
				Tick:         5,
			},
		},
		{
			Meta: domain.EventMeta{ChainID: 1, BlockNumber: 5, LogIndex: 0, Timestamp: 60, TxHash: "0x1", TxFrom: "0xf1"},
			Kind: domain.EventInitialize,
			Initialize: &domain.InitializeParams{
				SqrtPriceX96: new(big.Int).Lsh(big.NewInt(40), 96),
				Tick:         0,
			},
		},
	}
	require.NoError(t, WriteEventsJSONL(path, events))

	src := NewFileEventSource(path, quietLogger())
	ch, err := src.Subscribe(context.Background())
	require.NoError(t, err)

	var got []*domain.Event
	for ev := range ch {
		got = append(got, ev)
	}
	require.Len(t, got, 2)
	require.NoError(t, ValidateOrdering(got))
	require.Equal(t, domain.EventInitialize, got[0].Kind)
	require.Equal(t, domain.EventSwap, got[1].Kind)
	require.Equal(t, 0, got[1].Swap.Amount1.Cmp(big.NewInt(-200)))
	require.Equal(t, "0xf2", got[1].Meta.TxFrom)
}

func TestManagerWaitsForRunners(t *testing.T) {
	srcA := &stubSource{ch: make(chan *domain.Event, 4)}
	srcB := &stubSource{ch: make(chan *domain.Event, 4)}
	sinkA := &recordingSink{}
	sinkB := &recordingSink{}

	runnerA, err := NewRunner(RunnerOptions{ChainID: 1, Source: srcA, Sink: sinkA, Logger: quietLogger()})
	require.NoError(t, err)
	runnerB, err := NewRunner(RunnerOptions{ChainID: 10, Source: srcB, Sink: sinkB, Logger: quietLogger()})
	require.NoError(t, err)

	srcA.ch <- evAt(1, 0)
	srcB.ch <- evAt(2, 0)
	close(srcA.ch)
	close(srcB.ch)

	m := NewManager([]*Runner{runnerA, runnerB}, quietLogger())
	require.NoError(t, m.Run(context.Background()))

	require.Len(t, sinkA.events, 1)
	require.Len(t, sinkB.events, 1)
}
