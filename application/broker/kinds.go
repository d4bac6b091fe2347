package broker

import (
	"context"

	"github.com/chatkit-dev/sam/domain/entities"
	"github.com/chatkit-dev/sam/domain/ports"
)

// newBase wires the shared broker state. doc and manifest are nil for
// name-only construction.
func newBase(deps Deps, account string, kind entities.Kind, name, apiVersion string, doc *entities.ManifestDocument, manifest entities.TypedManifest) *baseBroker {
	if apiVersion == "" {
		apiVersion = entities.DefaultAPIVersion
	}
	return &baseBroker{
		deps:       deps,
		account:    account,
		kind:       kind,
		name:       name,
		apiVersion: apiVersion,
		doc:        doc,
		manifest:   manifest,
	}
}

// accountBroker manages tenant accounts. Deleting an account cascades to
// every resource the account owns.
type accountBroker struct {
	*baseBroker
}

func newAccountBroker(deps Deps, account, name, apiVersion string, doc *entities.ManifestDocument, manifest entities.TypedManifest) ports.Broker {
	b := &accountBroker{baseBroker: newBase(deps, account, entities.KindAccount, name, apiVersion, doc, manifest)}
	b.dependents = b.ownedResources
	return b
}

func (b *accountBroker) ownedResources(ctx context.Context) ([]entities.ResourceKey, error) {
	var keys []entities.ResourceKey
	for _, kind := range entities.Kinds() {
		if kind == entities.KindAccount {
			continue
		}
		records, err := b.deps.Store.List(ctx, b.account, kind)
		if err != nil {
			return nil, err
		}
		for _, r := range records {
			keys = append(keys, entities.ResourceKey{Kind: r.Kind, Name: r.Name})
		}
	}
	return keys, nil
}

// userBroker manages dashboard users. No deploy semantics.
type userBroker struct {
	*baseBroker
}

func newUserBroker(deps Deps, account, name, apiVersion string, doc *entities.ManifestDocument, manifest entities.TypedManifest) ports.Broker {
	return &userBroker{baseBroker: newBase(deps, account, entities.KindUser, name, apiVersion, doc, manifest)}
}

// pluginBroker manages data plugins. Deployable; no dependents — chatbots
// reference plugins by name but are not owned by them.
type pluginBroker struct {
	*baseBroker
}

func newPluginBroker(deps Deps, account, name, apiVersion string, doc *entities.ManifestDocument, manifest entities.TypedManifest) ports.Broker {
	b := &pluginBroker{baseBroker: newBase(deps, account, entities.KindPlugin, name, apiVersion, doc, manifest)}
	b.deployable = true
	return b
}

// chatbotBroker manages hosted assistants. Deployable; deletion cascades
// to the bot's API keys and retained chats.
type chatbotBroker struct {
	*baseBroker
}

func newChatbotBroker(deps Deps, account, name, apiVersion string, doc *entities.ManifestDocument, manifest entities.TypedManifest) ports.Broker {
	b := &chatbotBroker{baseBroker: newBase(deps, account, entities.KindChatbot, name, apiVersion, doc, manifest)}
	b.deployable = true
	b.dependents = b.keysAndChats
	return b
}

func (b *chatbotBroker) keysAndChats(ctx context.Context) ([]entities.ResourceKey, error) {
	keys, err := apiKeysTargeting(ctx, b.deps.Store, b.account, entities.KindChatbot, b.name)
	if err != nil {
		return nil, err
	}
	chats, err := b.deps.Store.List(ctx, b.account, entities.KindChat)
	if err != nil {
		return nil, err
	}
	for _, chat := range chats {
		if specString(chat, "chatbot") == b.name {
			keys = append(keys, entities.ResourceKey{Kind: entities.KindChat, Name: chat.Name})
		}
	}
	return keys, nil
}

// connectionBroker manages SqlConnection and ApiConnection resources.
// Deployable; deletion cascades to API keys targeting the connection.
type connectionBroker struct {
	*baseBroker
}

func newConnectionBroker(kind entities.Kind) func(deps Deps, account, name, apiVersion string, doc *entities.ManifestDocument, manifest entities.TypedManifest) ports.Broker {
	return func(deps Deps, account, name, apiVersion string, doc *entities.ManifestDocument, manifest entities.TypedManifest) ports.Broker {
		b := &connectionBroker{baseBroker: newBase(deps, account, kind, name, apiVersion, doc, manifest)}
		b.deployable = true
		b.dependents = func(ctx context.Context) ([]entities.ResourceKey, error) {
			return apiKeysTargeting(ctx, deps.Store, account, kind, name)
		}
		return b
	}
}

// apiKeyBroker manages access keys. No deploy semantics.
type apiKeyBroker struct {
	*baseBroker
}

func newAPIKeyBroker(deps Deps, account, name, apiVersion string, doc *entities.ManifestDocument, manifest entities.TypedManifest) ports.Broker {
	return &apiKeyBroker{baseBroker: newBase(deps, account, entities.KindAPIKey, name, apiVersion, doc, manifest)}
}

// chatBroker manages retained transcripts. No deploy semantics.
type chatBroker struct {
	*baseBroker
}

func newChatBroker(deps Deps, account, name, apiVersion string, doc *entities.ManifestDocument, manifest entities.TypedManifest) ports.Broker {
	return &chatBroker{baseBroker: newBase(deps, account, entities.KindChat, name, apiVersion, doc, manifest)}
}

// apiKeysTargeting lists the account's API keys whose spec targets the
// given resource.
func apiKeysTargeting(ctx context.Context, store ports.ResourceStore, account string, targetKind entities.Kind, target string) ([]entities.ResourceKey, error) {
	records, err := store.List(ctx, account, entities.KindAPIKey)
	if err != nil {
		return nil, err
	}
	var keys []entities.ResourceKey
	for _, r := range records {
		if specString(r, "targetKind") == string(targetKind) && specString(r, "target") == target {
			keys = append(keys, entities.ResourceKey{Kind: entities.KindAPIKey, Name: r.Name})
		}
	}
	return keys, nil
}

func specString(record *entities.ResourceRecord, field string) string {
	spec, _ := record.Manifest["spec"].(map[string]any)
	value, _ := spec[field].(string)
	return value
}
