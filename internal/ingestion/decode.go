package ingestion

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"univ3-pool-lab/internal/domain"
)

// Event signature hashes (topic0) of the factory and pool logs.
const (
	topicPoolCreated = "0x783cca1c0412dd0d695e784568c96da2e9c22ff989357a2e8b1d9b2b4e6b7118"
	topicInitialize  = "0x98636036cb66a9c19a37435efc1e90142190214e8abeb821bdba3f2990dd4c95"
	topicMint        = "0x7a53080ba414158be7ec69b987b5fb7d07dee101fe85488f0853ae16239d0bde"
	topicBurn        = "0x0c396cd989a39f4459b5fa1aed6a9a8dcdbc45908acfd67e028cd568da98982c"
	topicSwap        = "0xc42079f94a6350d7e6235f29174924f928cc2ac818eb64fed8004e115fbcca67"
	topicCollect     = "0x70935338e69775456a85ddef226c395fb668b63fa0115f5f20610b388e6ca9c0"
)

// SubscriptionTopics are the topic0 values a live subscription filters on.
func SubscriptionTopics() []string {
	return []string{
		topicPoolCreated,
		topicInitialize,
		topicMint,
		topicBurn,
		topicSwap,
		topicCollect,
	}
}

// RawLog is one log entry as delivered by an eth_subscribe("logs")
// notification or eth_getLogs response. Quantities are hex strings.
type RawLog struct {
	Address         string   `json:"address"`
	Topics          []string `json:"topics"`
	Data            string   `json:"data"`
	BlockNumber     string   `json:"blockNumber"`
	TransactionHash string   `json:"transactionHash"`
	LogIndex        string   `json:"logIndex"`
	Removed         bool     `json:"removed"`
}

// ErrUnknownTopic marks logs whose topic0 is not one of ours.
var ErrUnknownTopic = fmt.Errorf("unknown event topic")

// DecodeLog decodes a raw log into an event. Timestamp and TxFrom are
// left zero; the source enriches them afterwards.
func DecodeLog(chainID uint64, raw *RawLog) (*domain.Event, error) {
	if len(raw.Topics) == 0 {
		return nil, ErrUnknownTopic
	}

	blockNumber, err := hexutil.DecodeUint64(raw.BlockNumber)
	if err != nil {
		return nil, fmt.Errorf("block number %q: %w", raw.BlockNumber, err)
	}
	logIndex, err := hexutil.DecodeUint64(raw.LogIndex)
	if err != nil {
		return nil, fmt.Errorf("log index %q: %w", raw.LogIndex, err)
	}

	ev := &domain.Event{
		Meta: domain.EventMeta{
			ChainID:     chainID,
			Address:     strings.ToLower(raw.Address),
			BlockNumber: blockNumber,
			TxHash:      strings.ToLower(raw.TransactionHash),
			LogIndex:    uint32(logIndex),
		},
	}

	data, err := hexutil.Decode(raw.Data)
	if err != nil {
		return nil, fmt.Errorf("log data: %w", err)
	}

	switch strings.ToLower(raw.Topics[0]) {
	case topicPoolCreated:
		if len(raw.Topics) < 4 || len(data) < 64 {
			return nil, fmt.Errorf("malformed PoolCreated log")
		}
		ev.Kind = domain.EventPoolCreated
		ev.PoolCreated = &domain.PoolCreatedParams{
			Token0: topicAddress(raw.Topics[1]),
			Token1: topicAddress(raw.Topics[2]),
			Fee:    topicSigned(raw.Topics[3]).Int64(),
			Pool:   wordAddress(data, 1),
		}

	case topicInitialize:
		if len(data) < 64 {
			return nil, fmt.Errorf("malformed Initialize log")
		}
		ev.Kind = domain.EventInitialize
		ev.Initialize = &domain.InitializeParams{
			SqrtPriceX96: wordUnsigned(data, 0),
			Tick:         int32(wordSigned(data, 1).Int64()),
		}

	case topicMint:
		if len(raw.Topics) < 4 || len(data) < 128 {
			return nil, fmt.Errorf("malformed Mint log")
		}
		ev.Kind = domain.EventMint
		ev.Mint = &domain.MintParams{
			Owner:     topicAddress(raw.Topics[1]),
			TickLower: int32(topicSigned(raw.Topics[2]).Int64()),
			TickUpper: int32(topicSigned(raw.Topics[3]).Int64()),
			Sender:    wordAddress(data, 0),
			Amount:    wordUnsigned(data, 1),
			Amount0:   wordUnsigned(data, 2),
			Amount1:   wordUnsigned(data, 3),
		}

	case topicBurn:
		if len(raw.Topics) < 4 || len(data) < 96 {
			return nil, fmt.Errorf("malformed Burn log")
		}
		ev.Kind = domain.EventBurn
		ev.Burn = &domain.BurnParams{
			Owner:     topicAddress(raw.Topics[1]),
			TickLower: int32(topicSigned(raw.Topics[2]).Int64()),
			TickUpper: int32(topicSigned(raw.Topics[3]).Int64()),
			Amount:    wordUnsigned(data, 0),
			Amount0:   wordUnsigned(data, 1),
			Amount1:   wordUnsigned(data, 2),
		}

	case topicSwap:
		if len(raw.Topics) < 3 || len(data) < 160 {
			return nil, fmt.Errorf("malformed Swap log")
		}
		ev.Kind = domain.EventSwap
		ev.Swap = &domain.SwapParams{
			Sender:       topicAddress(raw.Topics[1]),
			Recipient:    topicAddress(raw.Topics[2]),
			Amount0:      wordSigned(data, 0),
			Amount1:      wordSigned(data, 1),
			SqrtPriceX96: wordUnsigned(data, 2),
			Liquidity:    wordUnsigned(data, 3),
			Tick:         int32(wordSigned(data, 4).Int64()),
		}

	case topicCollect:
		if len(raw.Topics) < 4 || len(data) < 96 {
			return nil, fmt.Errorf("malformed Collect log")
		}
		ev.Kind = domain.EventCollect
		ev.Collect = &domain.CollectParams{
			Owner:     topicAddress(raw.Topics[1]),
			TickLower: int32(topicSigned(raw.Topics[2]).Int64()),
			TickUpper: int32(topicSigned(raw.Topics[3]).Int64()),
			Recipient: wordAddress(data, 0),
			Amount0:   wordUnsigned(data, 1),
			Amount1:   wordUnsigned(data, 2),
		}

	default:
		return nil, ErrUnknownTopic
	}

	return ev, nil
}

var twoPow255 = new(big.Int).Lsh(big.NewInt(1), 255)
var twoPow256 = new(big.Int).Lsh(big.NewInt(1), 256)

// wordUnsigned reads the i-th 32-byte word of data as an unsigned integer.
func wordUnsigned(data []byte, i int) *big.Int {
	return new(big.Int).SetBytes(data[i*32 : (i+1)*32])
}

// wordSigned reads the i-th word as a two's-complement signed integer.
func wordSigned(data []byte, i int) *big.Int {
	v := wordUnsigned(data, i)
	if v.Cmp(twoPow255) >= 0 {
		v.Sub(v, twoPow256)
	}
	return v
}

// wordAddress reads the i-th word as a right-aligned address.
func wordAddress(data []byte, i int) string {
	return strings.ToLower(common.BytesToAddress(data[i*32 : (i+1)*32]).Hex())
}

// topicAddress decodes an indexed address topic.
func topicAddress(topic string) string {
	b, err := hexutil.Decode(topic)
	if err != nil || len(b) != 32 {
		return ""
	}
	return strings.ToLower(common.BytesToAddress(b).Hex())
}

// topicSigned decodes an indexed integer topic as signed.
func topicSigned(topic string) *big.Int {
	b, err := hexutil.Decode(topic)
	if err != nil || len(b) != 32 {
		return big.NewInt(0)
	}
	return wordSigned(b, 0)
}
