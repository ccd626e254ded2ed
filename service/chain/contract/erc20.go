package contract

import (
	"math/big"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	baseabi "github.com/bidhaus/goapi/base/abi"
	bCtx "github.com/bidhaus/goapi/base/ctx"
	"github.com/bidhaus/goapi/domain"
	"github.com/bidhaus/goapi/service/chain"
)

type Erc20Contract interface {
	Decimals(ctx bCtx.Ctx, chainId int32, addr string) (uint8, error)
	BalanceOf(ctx bCtx.Ctx, chainId int32, addr string, owner string) (*big.Int, error)
	Allowance(ctx bCtx.Ctx, chainId int32, addr string, owner, spender string) (*big.Int, error)
	Transfer(ctx bCtx.Ctx, chainId int32, addr string, to string, amount *big.Int) (domain.TxHash, error)
	TransferFrom(ctx bCtx.Ctx, chainId int32, addr string, from, to string, amount *big.Int) (domain.TxHash, error)
}

type Erc20 struct {
	chainService chain.Client
	abi          ethabi.ABI
}

func NewErc20(chainService chain.Client) *Erc20 {
	return &Erc20{
		abi:          baseabi.ERC20TokenABI,
		chainService: chainService,
	}
}

func (e *Erc20) Decimals(ctx bCtx.Ctx, chainId int32, addr string) (uint8, error) {
	method := "decimals"
	unpacked, err := e.chainService.Call(ctx, chainId, common.HexToAddress(addr), nil, e.abi, method)
	if err != nil {
		return 0, err
	}
	return unpacked[0].(uint8), nil
}

func (e *Erc20) BalanceOf(ctx bCtx.Ctx, chainId int32, addr string, owner string) (*big.Int, error) {
	method := "balanceOf"
	unpacked, err := e.chainService.Call(ctx, chainId, common.HexToAddress(addr), nil, e.abi, method, common.HexToAddress(owner))
	if err != nil {
		return nil, err
	}
	return unpacked[0].(*big.Int), nil
}

func (e *Erc20) Allowance(ctx bCtx.Ctx, chainId int32, addr string, owner, spender string) (*big.Int, error) {
	method := "allowance"
	unpacked, err := e.chainService.Call(ctx, chainId, common.HexToAddress(addr), nil, e.abi, method, common.HexToAddress(owner), common.HexToAddress(spender))
	if err != nil {
		return nil, err
	}
	return unpacked[0].(*big.Int), nil
}

func (e *Erc20) Transfer(ctx bCtx.Ctx, chainId int32, addr string, to string, amount *big.Int) (domain.TxHash, error) {
	method := "transfer"
	hash, err := e.chainService.Transact(ctx, chainId, common.HexToAddress(addr), e.abi, method, common.HexToAddress(to), amount)
	if err != nil {
		return "", err
	}
	return domain.TxHash(hash.Hex()), nil
}

func (e *Erc20) TransferFrom(ctx bCtx.Ctx, chainId int32, addr string, from, to string, amount *big.Int) (domain.TxHash, error) {
	method := "transferFrom"
	hash, err := e.chainService.Transact(ctx, chainId, common.HexToAddress(addr), e.abi, method, common.HexToAddress(from), common.HexToAddress(to), amount)
	if err != nil {
		return "", err
	}
	return domain.TxHash(hash.Hex()), nil
}
