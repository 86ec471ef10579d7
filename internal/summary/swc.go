package summary

// SWC registry titles
// https://swcregistry.io/
var swcTitles = map[string]string{
	"100": "Function Default Visibility",
	"101": "Integer Overflow and Underflow",
	"103": "Floating Pragma",
	"104": "Unchecked Call Return Value",
	"105": "Unprotected Ether Withdrawal",
	"106": "Unprotected SELFDESTRUCT Instruction",
	"107": "Reentrancy",
	"110": "Assert Violation",
	"111": "Use of Deprecated Solidity Functions",
	"112": "Delegatecall to Untrusted Callee",
	"113": "DoS with Failed Call",
	"114": "Transaction Order Dependence",
	"115": "Authorization through tx.origin",
	"116": "Block values as a proxy for time",
	"120": "Weak Sources of Randomness from Chain Attributes",
	"124": "Write to Arbitrary Storage Location",
	"127": "Arbitrary Jump with Function Type Variable",
	"128": "DoS With Block Gas Limit",
}

// SWCTitle returns the registry title, or "" for unknown IDs. Both "107" and
// "SWC-107" are accepted.
func SWCTitle(id string) string {
	if len(id) > 4 && (id[:4] == "SWC-" || id[:4] == "swc-") {
		id = id[4:]
	}
	return swcTitles[id]
}
