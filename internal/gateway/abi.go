package gateway

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// pnsABIJSON is the subset of the PushNameService contract ABI this service
// touches: read methods, the payable/mutating methods the orchestrator
// encodes, and the lifecycle events the reconciler folds.
const pnsABIJSON = `[
{"type":"function","stateMutability":"view","name":"isNameAvailable","inputs":[{"name":"name","type":"string"}],"outputs":[{"name":"","type":"bool"}]},
{"type":"function","stateMutability":"view","name":"getNameRecord","inputs":[{"name":"name","type":"string"}],"outputs":[{"name":"","type":"tuple","components":[{"name":"owner","type":"address"},{"name":"expiresAt","type":"uint256"},{"name":"registeredAt","type":"uint256"},{"name":"isPremium","type":"bool"},{"name":"originAccount","type":"tuple","components":[{"name":"chainNamespace","type":"string"},{"name":"chainId","type":"string"},{"name":"owner","type":"bytes"}]}]}]},
{"type":"function","stateMutability":"view","name":"getMetadata","inputs":[{"name":"name","type":"string"}],"outputs":[{"name":"avatar","type":"string"},{"name":"email","type":"string"},{"name":"url","type":"string"},{"name":"description","type":"string"},{"name":"twitter","type":"string"},{"name":"github","type":"string"},{"name":"discord","type":"string"},{"name":"telegram","type":"string"}]},
{"type":"function","stateMutability":"view","name":"calculateRegistrationFee","inputs":[{"name":"nameHash","type":"bytes32"}],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","stateMutability":"pure","name":"getNameHash","inputs":[{"name":"name","type":"string"}],"outputs":[{"name":"","type":"bytes32"}]},
{"type":"function","stateMutability":"view","name":"baseRegistrationFee","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","stateMutability":"view","name":"premiumMultiplier","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","stateMutability":"view","name":"GRACE_PERIOD","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","stateMutability":"view","name":"reverseLookup","inputs":[{"name":"addr","type":"address"}],"outputs":[{"name":"","type":"string"}]},
{"type":"function","stateMutability":"nonpayable","name":"setPrimaryName","inputs":[{"name":"name","type":"string"}],"outputs":[]},
{"type":"function","stateMutability":"payable","name":"register","inputs":[{"name":"name","type":"string"}],"outputs":[{"name":"","type":"bytes32"}]},
{"type":"function","stateMutability":"payable","name":"renew","inputs":[{"name":"name","type":"string"}],"outputs":[]},
{"type":"function","stateMutability":"nonpayable","name":"transfer","inputs":[{"name":"name","type":"string"},{"name":"newOwner","type":"address"}],"outputs":[]},
{"type":"function","stateMutability":"nonpayable","name":"setMetadata","inputs":[{"name":"name","type":"string"},{"name":"avatar","type":"string"},{"name":"email","type":"string"},{"name":"url","type":"string"},{"name":"description","type":"string"},{"name":"twitter","type":"string"},{"name":"github","type":"string"},{"name":"discord","type":"string"},{"name":"telegram","type":"string"}],"outputs":[]},
{"type":"event","name":"NameRegistered","anonymous":false,"inputs":[{"name":"nameHash","type":"bytes32","indexed":true},{"name":"name","type":"string","indexed":false},{"name":"owner","type":"address","indexed":true},{"name":"expiresAt","type":"uint256","indexed":false},{"name":"originChainNamespace","type":"string","indexed":false},{"name":"originChainId","type":"string","indexed":false},{"name":"isPremium","type":"bool","indexed":false}]},
{"type":"event","name":"NameRenewed","anonymous":false,"inputs":[{"name":"nameHash","type":"bytes32","indexed":true},{"name":"name","type":"string","indexed":false},{"name":"newExpiresAt","type":"uint256","indexed":false},{"name":"renewedBy","type":"address","indexed":false}]},
{"type":"event","name":"NameTransferred","anonymous":false,"inputs":[{"name":"nameHash","type":"bytes32","indexed":true},{"name":"name","type":"string","indexed":false},{"name":"from","type":"address","indexed":true},{"name":"to","type":"address","indexed":true}]}
]`

// Event topic signatures, keyed by the canonical event declarations
var (
	nameRegisteredSignature  = crypto.Keccak256Hash([]byte("NameRegistered(bytes32,string,address,uint256,string,string,bool)"))
	nameRenewedSignature     = crypto.Keccak256Hash([]byte("NameRenewed(bytes32,string,uint256,address)"))
	nameTransferredSignature = crypto.Keccak256Hash([]byte("NameTransferred(bytes32,string,address,address)"))
)

func parsePNSABI() (abi.ABI, error) {
	return abi.JSON(strings.NewReader(pnsABIJSON))
}

// ownerTopic left-pads an address into the 32-byte topic form used for
// indexed-owner log filters
func ownerTopic(owner common.Address) common.Hash {
	return common.BytesToHash(owner.Bytes())
}
