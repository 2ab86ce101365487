package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-assist/internal/core/domain"
)

func TestConnectCmd_Use(t *testing.T) {
	assert.Equal(t, "connect [url]", connectCmd.Use)
}

func TestConnectCmd_PrintsDeepLink(t *testing.T) {
	sessions, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "connect", "https://yoga.test/")

	require.NoError(t, err)
	assert.Contains(t, out, domain.MessageEscalation)
	assert.Contains(t, out, "https://wa.me/919876543210?text=Hi")
	assert.Empty(t, sessions.assistant.lastMsg)
	assert.False(t, sessions.assistant.activated)
}

func TestConnectCmd_CustomMessage(t *testing.T) {
	sessions, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "connect", "-m", "Can I join tomorrow?", "https://yoga.test/")

	require.NoError(t, err)
	assert.Equal(t, "Can I join tomorrow?", sessions.assistant.lastMsg)
}

func TestConnectCmd_NoContact(t *testing.T) {
	sessions, cleanup := setupTestServices()
	defer cleanup()
	sessions.assistant.escalation = &domain.Reply{Kind: domain.ReplyNoContact, Message: domain.MessageNoContact}

	out, err := execute(t, "connect", "--json", "https://yoga.test/")
	require.NoError(t, err)

	var reply domain.Reply
	require.NoError(t, json.Unmarshal([]byte(out), &reply))
	assert.Equal(t, domain.ReplyNoContact, reply.Kind)
	assert.Empty(t, reply.DeepLink)
}
