// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth binds caller addresses to HTTP requests.

The ledger trusts whatever address it is handed. Over HTTP that address
comes from the X-Caller-Address header and must be accompanied by a
matching X-Caller-Signature.

# Caller Signatures

Signatures use HMAC-SHA256 keyed with the server's caller salt:

	sig := auth.SignCaller(address, salt)
	err := auth.VerifyCaller(address, sig, salt)

The signature is URL-safe base64 encoded without padding. Since it's
deterministic, the same address and salt always produce the same signature,
so nothing needs to be stored. Operators hand signatures out with
`ledgerctl sign`.

# Requests

	caller, err := auth.CallerFromHeaders(r.Header, salt)

Returns ErrMissingCaller when no address is present and ErrInvalidSignature
when the signature does not match.
*/
package auth
