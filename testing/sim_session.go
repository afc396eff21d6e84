package testing

import (
	"github.com/opd-ai/gamesdk/abi"
	"github.com/opd-ai/gamesdk/model"
)

// session is the state behind one simulated core.
type session struct {
	sdk       *SimulatedSDK
	core      uintptr
	clientID  int64
	params    abi.CreateParams
	destroyed bool
	pending   []func()
	managers  map[abi.Iface]uintptr

	logMin  int32
	logData uintptr
	logFn   uintptr

	command  string
	steamID  uint32
	activity *model.Activity
	replies  map[int64]model.JoinRequestReply
	premium  model.PremiumType
	flags    int32

	filtered []model.Relationship
	fetched  map[int64]model.ImageDimensions

	lobbies    map[int64]*simLobby
	lobbyOrder []int64
	nextLobby  int64
	results    []int64
	voice      map[int64]bool

	peerID   uint64
	peers    map[uint64]string
	channels map[uint64]map[uint8]bool

	overlayEnabled bool
	overlayLocked  bool

	inputMode model.InputMode
	selfMute  bool
	selfDeaf  bool
	localMute map[int64]bool
	volume    map[int64]uint8
}

func newSession(sdk *SimulatedSDK, params *abi.CreateParams) *session {
	return &session{
		sdk:            sdk,
		clientID:       params.ClientID,
		params:         *params,
		managers:       make(map[abi.Iface]uintptr),
		replies:        make(map[int64]model.JoinRequestReply),
		premium:        model.PremiumTier1,
		flags:          int32(model.UserFlagHypeSquadEvents),
		fetched:        make(map[int64]model.ImageDimensions),
		lobbies:        make(map[int64]*simLobby),
		nextLobby:      int64(params.ClientID%1000)*1000 + 1,
		voice:          make(map[int64]bool),
		peerID:         0x5157_0000 + uint64(len(sdk.sessions)),
		peers:          make(map[uint64]string),
		channels:       make(map[uint64]map[uint8]bool),
		overlayEnabled: true,
		inputMode:      model.InputMode{Type: model.InputModeVoiceActivity},
		localMute:      make(map[int64]bool),
		volume:         make(map[int64]uint8),
	}
}

// later queues fn for the next run_callbacks.
func (ss *session) later(fn func()) {
	ss.pending = append(ss.pending, fn)
}

func (ss *session) lobby(id int64) (*simLobby, bool) {
	l, ok := ss.lobbies[id]
	return l, ok
}

// simLobby is a lobby with its members and metadata.
type simLobby struct {
	lobby     model.Lobby
	metadata  *orderedMap
	members   []int64
	memberMD  map[int64]*orderedMap
	connected bool
	channels  map[uint8]bool
}

func (l *simLobby) isMember(user int64) bool {
	for _, m := range l.members {
		if m == user {
			return true
		}
	}
	return false
}

func (l *simLobby) addMember(user int64) {
	if l.isMember(user) {
		return
	}
	l.members = append(l.members, user)
	l.memberMD[user] = newOrderedMap()
}

func (l *simLobby) removeMember(user int64) {
	for i, m := range l.members {
		if m == user {
			l.members = append(l.members[:i], l.members[i+1:]...)
			delete(l.memberMD, user)
			return
		}
	}
}

// orderedMap keeps metadata keys in insertion order so index based reads
// are stable.
type orderedMap struct {
	keys   []string
	values map[string]string
}

func newOrderedMap() *orderedMap {
	return &orderedMap{values: make(map[string]string)}
}

func (m *orderedMap) set(k, v string) {
	if _, ok := m.values[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.values[k] = v
}

func (m *orderedMap) del(k string) {
	if _, ok := m.values[k]; !ok {
		return
	}
	delete(m.values, k)
	for i, key := range m.keys {
		if key == k {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			return
		}
	}
}

func (m *orderedMap) get(k string) (string, bool) {
	v, ok := m.values[k]
	return v, ok
}

func (m *orderedMap) keyAt(i int) (string, bool) {
	if i < 0 || i >= len(m.keys) {
		return "", false
	}
	return m.keys[i], true
}

func (m *orderedMap) len() int { return len(m.keys) }

// lobbyTxn collects changes until create_lobby or update_lobby consumes it.
type lobbyTxn struct {
	lobbyID  int64
	typ      *model.LobbyType
	owner    *int64
	capacity *uint32
	locked   *bool
	set      map[string]string
	deleted  []string
}

func newLobbyTxn(lobbyID int64) *lobbyTxn {
	return &lobbyTxn{lobbyID: lobbyID, set: make(map[string]string)}
}

func (t *lobbyTxn) apply(l *simLobby) {
	if t.typ != nil {
		l.lobby.Type = *t.typ
	}
	if t.owner != nil {
		l.lobby.OwnerID = *t.owner
	}
	if t.capacity != nil {
		l.lobby.Capacity = *t.capacity
	}
	if t.locked != nil {
		l.lobby.Locked = *t.locked
	}
	for k, v := range t.set {
		l.metadata.set(k, v)
	}
	for _, k := range t.deleted {
		l.metadata.del(k)
	}
}

type memberTxn struct {
	lobbyID int64
	userID  int64
	set     map[string]string
	deleted []string
}

type searchFilter struct {
	key   string
	cmp   model.LobbySearchComparison
	cast  model.LobbySearchCast
	value string
}

type searchQuery struct {
	filters  []searchFilter
	limit    uint32
	distance model.LobbySearchDistance
}
