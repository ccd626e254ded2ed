package chain

import (
	"crypto/ecdsa"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	bCtx "github.com/bidhaus/goapi/base/ctx"
	"github.com/bidhaus/goapi/base/log"
)

var ErrUnsupportedChain = errors.New("unsupported chain")

type ClientCfg struct {
	RpcUrls        map[int32]string
	ArchiveRpcUrls map[int32]string
	// OperatorKey signs custody transfers, hex encoded without 0x prefix.
	// Transact returns ErrNoOperator when it is empty.
	OperatorKey string
}

var ErrNoOperator = errors.New("operator key not configured")

type Client interface {
	Call(bCtx.Ctx, int32, common.Address, *big.Int, abi.ABI, string, ...interface{}) ([]interface{}, error)
	Transact(bCtx.Ctx, int32, common.Address, abi.ABI, string, ...interface{}) (common.Hash, error)
}

type clientImpl struct {
	clients        map[int32]*ethclient.Client
	archiveClients map[int32]*ethclient.Client
	operatorKey    *ecdsa.PrivateKey
	operatorAddr   common.Address
}

func NewClient(ctx bCtx.Ctx, cfg *ClientCfg) (Client, error) {
	var (
		anyerr error
	)
	clients := make(map[int32]*ethclient.Client)
	for chainId, url := range cfg.RpcUrls {
		client, err := ethclient.DialContext(ctx, url)
		if err != nil {
			anyerr = err
			ctx.WithFields(log.Fields{
				"err":     err,
				"chainId": chainId,
				"url":     url,
			}).Warn("failed to dial rpc")
			// soft warning, still let the server start
			continue
		}
		clients[chainId] = client
	}
	archiveClients := make(map[int32]*ethclient.Client)
	for chainId, url := range cfg.ArchiveRpcUrls {
		client, err := ethclient.DialContext(ctx, url)
		if err != nil {
			anyerr = err
			ctx.WithFields(log.Fields{
				"err":     err,
				"chainId": chainId,
				"url":     url,
			}).Warn("failed to dial rpc")
			// soft warning, still let the server start
			continue
		}
		archiveClients[chainId] = client
	}
	im := &clientImpl{
		clients:        clients,
		archiveClients: archiveClients,
	}
	if cfg.OperatorKey != "" {
		key, err := crypto.HexToECDSA(cfg.OperatorKey)
		if err != nil {
			ctx.WithField("err", err).Error("failed to parse operator key")
			return nil, err
		}
		im.operatorKey = key
		im.operatorAddr = crypto.PubkeyToAddress(key.PublicKey)
	}
	return im, anyerr
}

func (c *clientImpl) Call(ctx bCtx.Ctx, chainId int32, addr common.Address, blk *big.Int, _abi abi.ABI, method string, params ...interface{}) ([]interface{}, error) {
	var (
		client *ethclient.Client
		ok     bool
	)
	if blk == nil {
		client, ok = c.clients[chainId]
	} else {
		client, ok = c.archiveClients[chainId]
	}
	if !ok {
		return nil, ErrUnsupportedChain
	}

	data, err := _abi.Pack(method, params...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"method": method,
			"params": params,
			"err":    err,
		}).Error("abi.Pack failed")
		return nil, err
	}
	msg := ethereum.CallMsg{
		To:   &addr,
		Data: data,
	}
	res, err := client.CallContract(ctx, msg, blk)
	if err != nil {
		ctx.WithField("err", err).Error("client.CallContract failed")
		return nil, err
	}
	unpacked, err := _abi.Unpack(method, res)
	if err != nil {
		ctx.WithField("err", err).Error("abi.Unpack failed")
		return nil, err
	}
	return unpacked, nil
}

// Transact sends a state changing call signed by the operator key and
// returns the transaction hash without waiting for a receipt.
func (c *clientImpl) Transact(ctx bCtx.Ctx, chainId int32, addr common.Address, _abi abi.ABI, method string, params ...interface{}) (common.Hash, error) {
	client, ok := c.clients[chainId]
	if !ok {
		return common.Hash{}, ErrUnsupportedChain
	}
	if c.operatorKey == nil {
		return common.Hash{}, ErrNoOperator
	}

	data, err := _abi.Pack(method, params...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"method": method,
			"params": params,
			"err":    err,
		}).Error("abi.Pack failed")
		return common.Hash{}, err
	}

	nonce, err := client.PendingNonceAt(ctx, c.operatorAddr)
	if err != nil {
		ctx.WithField("err", err).Error("client.PendingNonceAt failed")
		return common.Hash{}, err
	}

	gasTipCap, err := client.SuggestGasTipCap(ctx)
	if err != nil {
		ctx.WithField("err", err).Error("client.SuggestGasTipCap failed")
		return common.Hash{}, err
	}
	head, err := client.HeaderByNumber(ctx, nil)
	if err != nil {
		ctx.WithField("err", err).Error("client.HeaderByNumber failed")
		return common.Hash{}, err
	}
	baseFee := head.BaseFee
	if baseFee == nil {
		baseFee = big.NewInt(0)
	}
	// double the base fee so the tx survives a fee bump in the next block
	gasFeeCap := new(big.Int).Add(new(big.Int).Mul(baseFee, big.NewInt(2)), gasTipCap)

	gasLimit, err := client.EstimateGas(ctx, ethereum.CallMsg{
		From: c.operatorAddr,
		To:   &addr,
		Data: data,
	})
	if err != nil {
		ctx.WithFields(log.Fields{
			"method": method,
			"err":    err,
		}).Error("client.EstimateGas failed")
		return common.Hash{}, err
	}

	chainID := big.NewInt(int64(chainId))
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		GasTipCap: gasTipCap,
		GasFeeCap: gasFeeCap,
		Gas:       gasLimit,
		To:        &addr,
		Value:     big.NewInt(0),
		Data:      data,
	})
	signedTx, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), c.operatorKey)
	if err != nil {
		ctx.WithField("err", err).Error("types.SignTx failed")
		return common.Hash{}, err
	}
	if err := client.SendTransaction(ctx, signedTx); err != nil {
		ctx.WithFields(log.Fields{
			"err":  err,
			"hash": signedTx.Hash().Hex(),
		}).Error("client.SendTransaction failed")
		return common.Hash{}, err
	}
	ctx.WithFields(log.Fields{
		"hash":   signedTx.Hash().Hex(),
		"method": method,
		"nonce":  nonce,
	}).Info("transaction sent")
	return signedTx.Hash(), nil
}
