// Package contenthash converts between the binary content records stored by
// a name resolver and the URIs users read and type.
//
// Supported protocols:
//
//	ipfs://Qm...          CIDv0 (dag-pb, sha2-256), or ipfs://f<hex> for other CIDs
//	ipns://<name>         identity-hashed name, or ipns://f<hex> for key CIDs
//	bzz://<64 hex>        swarm manifest hash
//
// Raw 0x-prefixed hex passes through Encode unchanged.
package contenthash

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"nathanbeddoewebdev/namectl/internal/names/domain"

	"github.com/mr-tron/base58"
)

// Protocol names the storage network a content hash points into.
type Protocol string

const (
	ProtocolIPFS  Protocol = "ipfs"
	ProtocolIPNS  Protocol = "ipns"
	ProtocolSwarm Protocol = "bzz"
)

// ErrUnsupported is returned for content hashes with an unknown codec.
var ErrUnsupported = errors.New("contenthash: unsupported codec")

// Codec prefixes (unsigned varints) and CID/multihash headers.
var (
	prefixIPFS  = []byte{0xe3, 0x01}
	prefixIPNS  = []byte{0xe5, 0x01}
	prefixSwarm = []byte{0xe4, 0x01}

	cidV1DagPB      = []byte{0x01, 0x70}
	cidV1LibP2PKey  = []byte{0x01, 0x72}
	cidV1SwarmMan   = []byte{0x01, 0xfa, 0x01}
	multihashSHA256 = []byte{0x12, 0x20}
	multihashKeccak = []byte{0x1b, 0x20}
	multihashIdent  = byte(0x00)
)

// Decoded is a content hash split into protocol and display URI.
type Decoded struct {
	Protocol Protocol
	URI      string
}

// Decode parses a 0x-prefixed contenthash value.
func Decode(value string) (Decoded, error) {
	raw, err := decodeHex(value)
	if err != nil {
		return Decoded{}, err
	}

	switch {
	case bytes.HasPrefix(raw, prefixIPFS):
		cid := raw[len(prefixIPFS):]
		if bytes.HasPrefix(cid, cidV1DagPB) {
			mh := cid[len(cidV1DagPB):]
			if bytes.HasPrefix(mh, multihashSHA256) && len(mh) == len(multihashSHA256)+32 {
				return Decoded{Protocol: ProtocolIPFS, URI: "ipfs://" + base58.Encode(mh)}, nil
			}
		}
		return Decoded{Protocol: ProtocolIPFS, URI: "ipfs://f" + hex.EncodeToString(cid)}, nil

	case bytes.HasPrefix(raw, prefixIPNS):
		cid := raw[len(prefixIPNS):]
		if bytes.HasPrefix(cid, cidV1LibP2PKey) {
			mh := cid[len(cidV1LibP2PKey):]
			if len(mh) >= 2 && mh[0] == multihashIdent && int(mh[1]) == len(mh)-2 {
				return Decoded{Protocol: ProtocolIPNS, URI: "ipns://" + string(mh[2:])}, nil
			}
		}
		return Decoded{Protocol: ProtocolIPNS, URI: "ipns://f" + hex.EncodeToString(cid)}, nil

	case bytes.HasPrefix(raw, prefixSwarm):
		rest := raw[len(prefixSwarm):]
		if bytes.HasPrefix(rest, cidV1SwarmMan) {
			mh := rest[len(cidV1SwarmMan):]
			if bytes.HasPrefix(mh, multihashKeccak) && len(mh) == len(multihashKeccak)+32 {
				return Decoded{Protocol: ProtocolSwarm, URI: "bzz://" + hex.EncodeToString(mh[2:])}, nil
			}
		}
		return Decoded{}, fmt.Errorf("%w: malformed swarm hash", ErrUnsupported)
	}

	return Decoded{}, ErrUnsupported
}

// Encode converts a content URI (or raw hex) to a 0x-prefixed contenthash.
func Encode(uri string) (string, error) {
	uri = strings.TrimSpace(uri)

	switch {
	case strings.HasPrefix(uri, "0x") || strings.HasPrefix(uri, "0X"):
		raw, err := decodeHex(uri)
		if err != nil {
			return "", err
		}
		return "0x" + hex.EncodeToString(raw), nil

	case strings.HasPrefix(uri, "ipfs://"):
		id := strings.TrimPrefix(uri, "ipfs://")
		if cid, ok := base16CID(id); ok {
			return encode(prefixIPFS, cid), nil
		}
		mh, err := base58.Decode(id)
		if err != nil {
			return "", fmt.Errorf("contenthash: invalid ipfs hash %q: %w", id, err)
		}
		if !bytes.HasPrefix(mh, multihashSHA256) || len(mh) != len(multihashSHA256)+32 {
			return "", fmt.Errorf("contenthash: ipfs hash %q is not a sha2-256 multihash", id)
		}
		return encode(prefixIPFS, cidV1DagPB, mh), nil

	case strings.HasPrefix(uri, "ipns://"):
		id := strings.TrimPrefix(uri, "ipns://")
		if cid, ok := base16CID(id); ok {
			return encode(prefixIPNS, cid), nil
		}
		if id == "" || len(id) > 127 {
			return "", fmt.Errorf("contenthash: invalid ipns name %q", id)
		}
		return encode(prefixIPNS, cidV1LibP2PKey, []byte{multihashIdent, byte(len(id))}, []byte(id)), nil

	case strings.HasPrefix(uri, "bzz://"):
		digest, err := hex.DecodeString(strings.TrimPrefix(uri, "bzz://"))
		if err != nil || len(digest) != 32 {
			return "", fmt.Errorf("contenthash: swarm hash must be 32 bytes of hex")
		}
		return encode(prefixSwarm, cidV1SwarmMan, multihashKeccak, digest), nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnsupported, uri)
}

// Display renders a content record for humans. Legacy content is shown as
// stored; contenthash values are decoded when the codec is known.
func Display(value, contentType string) string {
	if contentType == domain.ContentTypeOld {
		return value
	}
	decoded, err := Decode(value)
	if err != nil {
		return value
	}
	return decoded.URI
}

// base16CID recognises the multibase base16 form ("f" + hex).
func base16CID(id string) ([]byte, bool) {
	if len(id) < 3 || id[0] != 'f' {
		return nil, false
	}
	cid, err := hex.DecodeString(id[1:])
	if err != nil {
		return nil, false
	}
	return cid, true
}

func decodeHex(value string) ([]byte, error) {
	s := strings.TrimSpace(value)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return nil, fmt.Errorf("contenthash: value %q is not 0x-prefixed", value)
	}
	raw, err := hex.DecodeString(s[2:])
	if err != nil {
		return nil, fmt.Errorf("contenthash: invalid hex: %w", err)
	}
	return raw, nil
}

func encode(parts ...[]byte) string {
	return "0x" + hex.EncodeToString(bytes.Join(parts, nil))
}
