package chatws

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stellar/go/keypair"
	"github.com/stellar/go/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	sessionstore "github.com/stellarsig/msig/internal/adapters/repo/memory"
	secretstore "github.com/stellarsig/msig/internal/adapters/secrets/memory"
	"github.com/stellarsig/msig/internal/adapters/chat"
	"github.com/stellarsig/msig/internal/application"
	"github.com/stellarsig/msig/internal/ports/mocks"
)

const testToken = "test-token"

type testEnv struct {
	t      *testing.T
	ledger *mocks.MockLedgerGateway
	server *httptest.Server
	ctx    context.Context
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ledger := mocks.NewMockLedgerGateway(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	coord := application.NewCoordinator(sessionstore.NewRepository(), secretstore.NewStore(), ledger,
		network.TestNetworkPassphrase, nil, logger)
	handler := NewHandler(testToken, chat.NewRouter(coord, logger), logger)

	server := httptest.NewServer(handler)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)

	t.Cleanup(func() {
		cancel()
		server.Close()
	})

	return &testEnv{t: t, ledger: ledger, server: server, ctx: ctx}
}

func (e *testEnv) dial(session, member string) *websocket.Conn {
	e.t.Helper()

	wsURL := "ws" + strings.TrimPrefix(e.server.URL, "http") +
		"?token=" + testToken + "&session=" + session + "&member=" + member
	conn, _, err := websocket.Dial(e.ctx, wsURL, nil)
	require.NoError(e.t, err)

	e.t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })
	return conn
}

func (e *testEnv) send(conn *websocket.Conn, text string) {
	e.t.Helper()

	data, err := json.Marshal(ClientMessage{Text: text})
	require.NoError(e.t, err)
	require.NoError(e.t, conn.Write(e.ctx, websocket.MessageText, data))
}

func (e *testEnv) read(conn *websocket.Conn) ServerMessage {
	e.t.Helper()

	_, data, err := conn.Read(e.ctx)
	require.NoError(e.t, err)

	var msg ServerMessage
	require.NoError(e.t, json.Unmarshal(data, &msg))
	return msg
}

func TestHandler_MissingToken(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.server.URL + "?session=s&member=m")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHandler_InvalidToken(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.server.URL + "?token=wrong&session=s&member=m")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHandler_MissingSessionOrMember(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.server.URL + "?token=" + testToken + "&member=m")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(env.server.URL + "?token=" + testToken + "&session=s")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandler_GroupRepliesReachEveryMember(t *testing.T) {
	env := newTestEnv(t)

	alice := env.dial("room", "alice")
	bob := env.dial("room", "bob")

	env.send(alice, "/start")

	echo := env.read(bob)
	assert.Equal(t, "alice", echo.Member)
	assert.Equal(t, "/start", echo.Text)
	assert.False(t, echo.Private)

	welcomeBob := env.read(bob)
	assert.Contains(t, welcomeBob.Text, "Welcome!")

	welcomeAlice := env.read(alice)
	assert.Contains(t, welcomeAlice.Text, "Welcome!")
}

func TestHandler_PrivateRepliesStayOnIssuingConnection(t *testing.T) {
	env := newTestEnv(t)

	env.ledger.EXPECT().FundAccount(mock.Anything, mock.Anything).Return(nil).Once()

	alice := env.dial("room", "alice")
	bob := env.dial("room", "bob")

	env.send(alice, "/start")
	env.read(bob) // echo
	env.read(bob) // welcome
	env.read(alice)

	env.send(alice, "/gen_keys")
	env.read(bob) // echo
	added := env.read(bob)
	assert.Contains(t, added.Text, "Original signer added")
	env.read(alice)

	env.send(alice, "/private_key")
	private := env.read(alice)
	assert.True(t, private.Private)
	assert.Contains(t, private.Text, "Your private key: S")

	// Bob sees the command echo but never the private payload.
	echo := env.read(bob)
	assert.Equal(t, "/private_key", echo.Text)

	env.send(alice, "/verify")
	echo = env.read(bob)
	assert.Equal(t, "/verify", echo.Text)
	next := env.read(bob)
	assert.Contains(t, next.Text, "Registered signers")
	assert.False(t, next.Private)
}

func TestHandler_ImportedSeedStaysOffTheRoom(t *testing.T) {
	env := newTestEnv(t)

	env.ledger.EXPECT().FundAccount(mock.Anything, mock.Anything).Return(nil).Once()

	alice := env.dial("room", "alice")
	bob := env.dial("room", "bob")

	env.send(alice, "/start")
	env.read(bob) // echo
	env.read(bob) // welcome
	env.read(alice)

	env.send(alice, "/import_keys")
	echo := env.read(bob)
	assert.Equal(t, "/import_keys", echo.Text)
	prompt := env.read(alice)
	assert.True(t, prompt.Private)
	assert.Contains(t, prompt.Text, "secret seed")

	// A rejected seed attempt stays between alice and the router.
	env.send(alice, "not-a-seed")
	retry := env.read(alice)
	assert.True(t, retry.Private)
	assert.Contains(t, retry.Text, "Send it again")

	// The seed answer reaches the router only. Bob's next frame is the
	// group announcement, with neither attempt echoed before it.
	seed := keypair.MustRandom().Seed()
	env.send(alice, seed)

	added := env.read(bob)
	assert.Empty(t, added.Member)
	assert.Contains(t, added.Text, "Signer added")
	assert.NotContains(t, added.Text, seed)

	confirm := env.read(alice)
	assert.True(t, confirm.Private)
	assert.Equal(t, "Your keys have been added.", confirm.Text)
}

func TestHandler_InvalidJSON(t *testing.T) {
	env := newTestEnv(t)

	alice := env.dial("room", "alice")
	require.NoError(t, alice.Write(env.ctx, websocket.MessageText, []byte("{nope")))

	msg := env.read(alice)
	assert.Equal(t, "Invalid message format", msg.Text)
	assert.True(t, msg.Private)
}

func TestHandler_SessionsAreIsolated(t *testing.T) {
	env := newTestEnv(t)

	alice := env.dial("room-a", "alice")
	carol := env.dial("room-b", "carol")

	env.send(alice, "/start")
	env.read(alice) // welcome for room-a only

	env.send(carol, "/help")
	menu := env.read(carol)
	assert.Contains(t, menu.Text, "Commands:")
	assert.Empty(t, menu.Member)
}
