// Package dsl parses the Eido architecture-description language.
//
// An Eido source declares services, containers that group them, and
// connections between them:
//
//	Gateway[icon: "nginx", label: "API Gateway"]
//	Backend[icon: "box"] {
//	  Auth[icon: "lock"]
//	  Orders
//	}
//	Gateway > Auth: login
//	Orders <> DB[icon: "db"]: reads
//
// # Pipeline
//
// Parsing happens in two steps:
//
//   - [Tokenize] splits the raw text into brace tokens and trimmed lines.
//   - [Parse] walks the tokens recursively and builds a [Diagram]: the
//     ordered node tree plus a flat list of [Connection] values.
//
// # Leniency
//
// The language has no error states. Lines that cannot be classified are
// dropped, unknown properties are ignored, and unbalanced braces simply end
// (or fail to end) a block. [Parse] therefore never returns an error; the
// worst outcome of malformed input is an empty or partial diagram.
//
// # Names
//
// A node name is case-sensitive and refers to exactly one node for the
// lifetime of a parse. The first declaration wins: later mentions, whether
// declarations or connection endpoints, resolve to the existing node.
// Connections may name nodes that were never declared; such nodes are
// created as plain services in the block where they are first mentioned.
package dsl
