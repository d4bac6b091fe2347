package entities

import "strings"

// Kind enumerates the resource kinds the broker manages. The set is
// closed; registries check themselves against Kinds at startup.
type Kind string

const (
	KindAccount       Kind = "Account"
	KindUser          Kind = "User"
	KindPlugin        Kind = "Plugin"
	KindChatbot       Kind = "Chatbot"
	KindSQLConnection Kind = "SqlConnection"
	KindAPIConnection Kind = "ApiConnection"
	KindAPIKey        Kind = "ApiKey"
	KindChat          Kind = "Chat"
)

// Kinds returns every managed kind in stable order.
func Kinds() []Kind {
	return []Kind{
		KindAccount,
		KindUser,
		KindPlugin,
		KindChatbot,
		KindSQLConnection,
		KindAPIConnection,
		KindAPIKey,
		KindChat,
	}
}

func (k Kind) String() string {
	return string(k)
}

// Thing is the lowercase envelope label for the kind.
func (k Kind) Thing() string {
	return strings.ToLower(string(k))
}

// kindsByAlias maps every accepted spelling to its canonical kind.
var kindsByAlias = func() map[string]Kind {
	m := make(map[string]Kind, len(Kinds())*2)
	for _, k := range Kinds() {
		alias := strings.ToLower(string(k))
		m[alias] = k
		m[alias+"s"] = k
	}
	return m
}()

// ResolveKind normalizes s to a canonical kind. Matching is
// case-insensitive, ignores surrounding whitespace and accepts a plural
// trailing "s".
func ResolveKind(s string) (Kind, bool) {
	k, ok := kindsByAlias[strings.ToLower(strings.TrimSpace(s))]
	return k, ok
}
