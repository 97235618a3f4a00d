package weave

import (
	"github.com/iov-one/weave-ballot/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// DeliverOrError builds the DeliverTx response. A non nil error wins over
// the result.
func DeliverOrError(result *DeliverResult, err error, debug bool) abci.ResponseDeliverTx {
	switch {
	case err != nil:
		return DeliverTxError(err, debug)
	case result == nil:
		return abci.ResponseDeliverTx{}
	default:
		return result.ToABCI()
	}
}

// CheckOrError builds the CheckTx response. A non nil error wins over the
// result.
func CheckOrError(result *CheckResult, err error, debug bool) abci.ResponseCheckTx {
	switch {
	case err != nil:
		return CheckTxError(err, debug)
	case result == nil:
		return abci.ResponseCheckTx{}
	default:
		return result.ToABCI()
	}
}

func (d DeliverResult) ToABCI() abci.ResponseDeliverTx {
	return abci.ResponseDeliverTx{
		Data:    d.Data,
		Log:     d.Log,
		Tags:    d.Tags,
		GasUsed: d.GasUsed,
	}
}

func (c CheckResult) ToABCI() abci.ResponseCheckTx {
	return abci.ResponseCheckTx{
		Data:      c.Data,
		Log:       c.Log,
		GasWanted: c.GasAllocated,
	}
}

// ParseDeliverOrError turns a DeliverTx response received by a client back
// into a result. A failed response is returned as the registered error of
// its code, so errors.ErrState.Is(err) works across the wire.
func ParseDeliverOrError(res abci.ResponseDeliverTx) (*DeliverResult, error) {
	if err := errors.ABCIError(res.Code, res.Log); err != nil {
		return nil, err
	}
	return &DeliverResult{
		Data:    res.Data,
		Log:     res.Log,
		Tags:    res.Tags,
		GasUsed: res.GasUsed,
	}, nil
}

// DeliverTxError encodes err as a failed DeliverTx response. Unregistered
// errors are redacted unless debug is set.
func DeliverTxError(err error, debug bool) abci.ResponseDeliverTx {
	code, log := abciLog("deliver", err, debug)
	return abci.ResponseDeliverTx{Code: code, Log: log}
}

// CheckTxError encodes err as a failed CheckTx response. Unregistered errors
// are redacted unless debug is set.
func CheckTxError(err error, debug bool) abci.ResponseCheckTx {
	code, log := abciLog("check", err, debug)
	return abci.ResponseCheckTx{Code: code, Log: log}
}

func abciLog(stage string, err error, debug bool) (uint32, string) {
	code, log := errors.ABCIInfo(err, debug)
	if code == errors.SuccessABCICode {
		return code, log
	}
	return code, "cannot " + stage + " tx: " + log
}
