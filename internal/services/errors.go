package services

import "errors"

// Failure taxonomy shared by the network services. Callers match with
// errors.Is; nothing here is retried internally.
var (
	// ErrNotFound: interface name or rule handle absent at query time.
	ErrNotFound = errors.New("not found")

	// ErrInvalidAddress: malformed "ip/prefix" string.
	ErrInvalidAddress = errors.New("invalid address")

	// ErrProtocol: netlink channel failure or undecodable message.
	ErrProtocol = errors.New("netlink protocol error")

	// ErrUnsupportedAction: rule action outside {accept, drop}.
	ErrUnsupportedAction = errors.New("unsupported action")

	// ErrApplication: the nft tool is missing or rejected the script.
	ErrApplication = errors.New("ruleset application failed")
)
