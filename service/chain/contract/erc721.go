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

type Erc721Contract interface {
	Supports721Interface(ctx bCtx.Ctx, chainId int32, addr string) (bool, error)
	OwnerOf(ctx bCtx.Ctx, chainId int32, addr string, tokenId *big.Int) (string, error)
	IsApproved(ctx bCtx.Ctx, chainId int32, addr string, tokenId *big.Int, owner, operator string) (bool, error)
	TransferFrom(ctx bCtx.Ctx, chainId int32, addr string, from, to string, tokenId *big.Int) (domain.TxHash, error)
}

type Erc721 struct {
	chainService      chain.Client
	abi               ethabi.ABI
	erc721InterfaceId [4]byte
}

func NewErc721(chainService chain.Client) *Erc721 {
	var interfaceId [4]byte
	copy(interfaceId[:], common.Hex2Bytes("80ac58cd"))
	return &Erc721{
		abi:               baseabi.ERC721TokenABI,
		chainService:      chainService,
		erc721InterfaceId: interfaceId,
	}
}

func (e *Erc721) Supports721Interface(ctx bCtx.Ctx, chainId int32, addr string) (bool, error) {
	method := "supportsInterface"
	unpacked, err := e.chainService.Call(ctx, chainId, common.HexToAddress(addr), nil, e.abi, method, e.erc721InterfaceId)
	if err != nil {
		return false, err
	}
	return unpacked[0].(bool), nil
}

func (e *Erc721) OwnerOf(ctx bCtx.Ctx, chainId int32, addr string, tokenId *big.Int) (string, error) {
	method := "ownerOf"
	unpacked, err := e.chainService.Call(ctx, chainId, common.HexToAddress(addr), nil, e.abi, method, tokenId)
	if err != nil {
		return "", err
	}
	return unpacked[0].(common.Address).String(), nil
}

// IsApproved reports whether operator may move tokenId, either through a
// per-token approval or an operator-wide one.
func (e *Erc721) IsApproved(ctx bCtx.Ctx, chainId int32, addr string, tokenId *big.Int, owner, operator string) (bool, error) {
	unpacked, err := e.chainService.Call(ctx, chainId, common.HexToAddress(addr), nil, e.abi, "getApproved", tokenId)
	if err != nil {
		return false, err
	}
	if approved, ok := unpacked[0].(common.Address); ok && approved == common.HexToAddress(operator) {
		return true, nil
	}
	unpacked, err = e.chainService.Call(ctx, chainId, common.HexToAddress(addr), nil, e.abi, "isApprovedForAll", common.HexToAddress(owner), common.HexToAddress(operator))
	if err != nil {
		return false, err
	}
	return unpacked[0].(bool), nil
}

func (e *Erc721) TransferFrom(ctx bCtx.Ctx, chainId int32, addr string, from, to string, tokenId *big.Int) (domain.TxHash, error) {
	method := "transferFrom"
	hash, err := e.chainService.Transact(ctx, chainId, common.HexToAddress(addr), e.abi, method, common.HexToAddress(from), common.HexToAddress(to), tokenId)
	if err != nil {
		return "", err
	}
	return domain.TxHash(hash.Hex()), nil
}
