package domain

import (
	"math/big"
	"strings"

	"golang.org/x/xerrors"
)

type ChainId int32

type Address string

// EmptyAddress doubles as the native-currency sentinel in the paytoken
// registry and in bids.
const EmptyAddress = Address("0x0000000000000000000000000000000000000000")

func (a Address) ToLower() Address {
	return Address(strings.ToLower(string(a)))
}

func (a Address) ToLowerStr() string {
	return strings.ToLower(string(a))
}

func (a Address) IsEmpty() bool {
	return len(a) == 0
}

func (a Address) IsNative() bool {
	return a == EmptyAddress
}

func (a Address) Equals(b Address) bool {
	return a.ToLowerStr() == b.ToLowerStr()
}

type TokenId string

func (i TokenId) String() string {
	return string(i)
}

func (i TokenId) ToBigInt() (*big.Int, error) {
	id, ok := new(big.Int).SetString(string(i), 10)
	if !ok {
		return nil, xerrors.Errorf("invalid token id %s", i)
	}
	return id, nil
}

// AuctionId is assigned by the factory, monotonically increasing from 1.
type AuctionId uint64

type TxHash string

// ToBigInt parses a base-10 amount string.
func ToBigInt(num string) (*big.Int, error) {
	bn, ok := new(big.Int).SetString(num, 10)
	if !ok {
		return nil, xerrors.Errorf("invalid number %s", num)
	}
	return bn, nil
}

// CustodyToken resolves the erc20 used to custody funds of a currency.
// Native amounts are held as the chain's wrapped native token, while price
// normalization still uses the native/usd feed registered under EmptyAddress.
func CustodyToken(chainId ChainId, currency Address) (Address, bool) {
	if !currency.IsNative() {
		return currency, true
	}
	wrapped, ok := ChainIdWrappedNativeMap[chainId]
	return wrapped, ok
}

var ChainIdWrappedNativeMap = map[ChainId]Address{
	// eth
	1: "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2",
	// goerli
	5: "0xb4fbf271143f4fbf7b91a5ded31805e42b2208d6",
	// sepolia
	11155111: "0xfff9976782d46cc05630d1f6ebab18b2324d6b14",
	// hardhat local
	31337: "0x5fbdb2315678afecb367f032d93f642f64180aa3",
}
