// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
)

// Code identifies a revert reason. Values are stable and exposed over the API.
type Code uint16

const (
	CodeUnknown Code = iota
	CodeInvalidAmount
	CodeInsufficientBalance
	CodeArithmeticOverflow
	CodeAuthorizationMismatch
	CodeDuplicateEnrollment
	CodeNotFound
	CodeMintMismatch
	CodeBadNonce
)

var codeNames = map[Code]string{
	CodeUnknown:               "Unknown",
	CodeInvalidAmount:         "InvalidAmount",
	CodeInsufficientBalance:   "InsufficientBalance",
	CodeArithmeticOverflow:    "ArithmeticOverflow",
	CodeAuthorizationMismatch: "AuthorizationMismatch",
	CodeDuplicateEnrollment:   "DuplicateEnrollment",
	CodeNotFound:              "NotFound",
	CodeMintMismatch:          "MintMismatch",
	CodeBadNonce:              "BadNonce",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return codeNames[CodeUnknown]
}

var (
	ErrInvalidAmount         = New(CodeInvalidAmount, "amount must be greater than zero")
	ErrInsufficientBalance   = New(CodeInsufficientBalance, "insufficient balance")
	ErrArithmeticOverflow    = New(CodeArithmeticOverflow, "arithmetic overflow")
	ErrAuthorizationMismatch = New(CodeAuthorizationMismatch, "authorization mismatch")
	ErrDuplicateEnrollment   = New(CodeDuplicateEnrollment, "already initialized")
	ErrNotFound              = New(CodeNotFound, "not found")
	ErrMintMismatch          = New(CodeMintMismatch, "mint mismatch")
	ErrBadNonce              = New(CodeBadNonce, "bad nonce")
)

// ErrRevert is a business rule violation. A reverted operation leaves no effects.
type ErrRevert struct {
	code    Code
	message string
}

func New(code Code, message string) *ErrRevert {
	return &ErrRevert{
		code:    code,
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

func (e *ErrRevert) Code() Code {
	return e.code
}

// Is reports reverts with the same code as equal, so wrapped or re-created
// reverts still match the sentinels.
func (e *ErrRevert) Is(target error) bool {
	var t *ErrRevert
	if !errors.As(target, &t) {
		return false
	}
	return t.code == e.code
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// CodeOf returns the revert code carried by err, or CodeUnknown.
func CodeOf(err error) Code {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.code
	}
	return CodeUnknown
}
