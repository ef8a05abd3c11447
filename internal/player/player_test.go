package player

import (
	"sync"
	"testing"
	"time"

	"github.com/pixil98/go-realm/internal/door"
	"github.com/pixil98/go-realm/internal/entity"
	"github.com/pixil98/go-realm/internal/packet"
	"github.com/pixil98/go-realm/internal/world"
	"github.com/pixil98/go-testutil"
)

type fakeConn struct {
	mu     sync.Mutex
	closed bool
	reason string
}

func (c *fakeConn) Send(data []byte) error { return nil }

func (c *fakeConn) Close(reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		c.reason = reason
	}
}

func (c *fakeConn) closedWith() (bool, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed, c.reason
}

type recordingRouter struct {
	mu     sync.Mutex
	pushes []world.Push
}

func (r *recordingRouter) Route(push world.Push) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pushes = append(r.pushes, push)
	return nil
}

func (r *recordingRouter) all() []world.Push {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]world.Push, len(r.pushes))
	copy(out, r.pushes)
	return out
}

func (r *recordingRouter) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pushes = nil
}

// testGrid is a 100x100 map split into 10x10 regions with no obstructions.
type testGrid struct{}

func (testGrid) IsOutOfBounds(x, y int) bool { return x < 0 || y < 0 || x >= 100 || y >= 100 }
func (testGrid) IsColliding(x, y int) bool   { return false }
func (testGrid) IsEmpty(x, y int) bool       { return false }
func (testGrid) IsDoor(x, y int) bool        { return false }
func (testGrid) CoordToIndex(x, y int) int   { return y*100 + x }
func (testGrid) IndexToCoord(index int) (int, int) {
	return index % 100, index / 100
}
func (testGrid) GetPlateauLevel(x, y int) int { return 0 }
func (testGrid) GetRegion(x, y int) int       { return (y/10)*10 + x/10 }
func (testGrid) RegionNeighbors(region int) []int {
	return []int{region}
}

func testDeps(router world.Router) *Deps {
	return &Deps{
		Router:  router,
		Grid:    testGrid{},
		Index:   world.NewIndex(),
		Offline: true,
		SpawnX:  50,
		SpawnY:  50,
	}
}

func loadedPlayer(t *testing.T, deps *Deps, rec *Record) (*Player, *fakeConn) {
	t.Helper()
	conn := &fakeConn{}
	p := New("instance-"+rec.Username, conn, deps)
	p.Load(rec)
	return p, conn
}

func TestLoadHealsUnsetHitPoints(t *testing.T) {
	p, _ := loadedPlayer(t, testDeps(nil), &Record{
		Username:  "ann",
		X:         10,
		Y:         10,
		HitPoints: HitPointsUnset,
	})

	testutil.AssertEqual(t, "ready", p.Ready(), true)
	testutil.AssertEqual(t, "dead", p.IsDead(), false)
	if p.HitPoints() <= 0 || p.HitPoints() != p.MaxHitPoints() {
		t.Errorf("expected full heal, got %d/%d", p.HitPoints(), p.MaxHitPoints())
	}
}

func TestLoadRestoresHitPoints(t *testing.T) {
	p, _ := loadedPlayer(t, testDeps(nil), &Record{
		Username:  "ann",
		X:         10,
		Y:         10,
		HitPoints: 40,
	})

	testutil.AssertEqual(t, "hit points", p.HitPoints(), 40)
}

func TestIntroBanGate(t *testing.T) {
	deps := testDeps(nil)
	p, conn := loadedPlayer(t, deps, &Record{
		Username:  "ann",
		X:         10,
		Y:         10,
		BanExpiry: time.Now().Add(time.Hour).UnixMilli(),
	})

	closed, reason := conn.closedWith()
	testutil.AssertEqual(t, "closed", closed, true)
	testutil.AssertEqual(t, "reason", reason, banReason)
	testutil.AssertEqual(t, "ready", p.Ready(), false)
	if deps.Index.Get(p.Instance()) != nil {
		t.Error("banned player must not join the live index")
	}
}

func TestIntroExpiredBanAdmits(t *testing.T) {
	p, conn := loadedPlayer(t, testDeps(nil), &Record{
		Username:  "ann",
		X:         10,
		Y:         10,
		BanExpiry: time.Now().Add(-time.Hour).UnixMilli(),
	})

	closed, _ := conn.closedWith()
	testutil.AssertEqual(t, "closed", closed, false)
	testutil.AssertEqual(t, "ready", p.Ready(), true)
}

func TestIntroSpawnCorrection(t *testing.T) {
	p, _ := loadedPlayer(t, testDeps(nil), &Record{
		Username: "ann",
		X:        5000,
		Y:        5000,
	})

	testutil.AssertEqual(t, "x", p.X(), 50)
	testutil.AssertEqual(t, "y", p.Y(), 50)
}

func TestAddExperienceSplitsPackets(t *testing.T) {
	router := &recordingRouter{}
	p, _ := loadedPlayer(t, testDeps(router), &Record{Username: "ann", X: 10, Y: 10})
	router.reset()

	p.AddExperience(50)

	var public, private *packet.Experience
	for _, push := range router.all() {
		exp, ok := push.Packet.(packet.Experience)
		if !ok {
			continue
		}
		switch push.Scope {
		case world.PushRegions:
			testutil.AssertEqual(t, "exclude self", push.Exclude, p.Instance())
			public = &exp
		case world.PushPlayer:
			private = &exp
		}
	}

	if public == nil || private == nil {
		t.Fatal("expected one region and one player experience packet")
	}
	testutil.AssertEqual(t, "public amount", public.Amount, 50)
	testutil.AssertEqual(t, "public counters hidden", public.Experience, 0)
	testutil.AssertEqual(t, "private experience", private.Experience, 50)
	if private.NextExp <= private.Experience {
		t.Errorf("next threshold %d must exceed experience %d", private.NextExp, private.Experience)
	}
}

func TestAddExperienceLevelUpHealsAndResends(t *testing.T) {
	router := &recordingRouter{}
	p, _ := loadedPlayer(t, testDeps(router), &Record{Username: "ann", X: 10, Y: 10})
	p.SetHitPoints(1)
	router.reset()

	before := p.Level()
	p.AddExperience(100000)

	if p.Level() <= before {
		t.Fatalf("expected level up from %d, got %d", before, p.Level())
	}
	testutil.AssertEqual(t, "full heal", p.HitPoints(), p.MaxHitPoints())

	forced := false
	synced := false
	for _, push := range router.all() {
		if region, ok := push.Packet.(packet.Region); ok && region.Forced {
			forced = true
		}
		if sync, ok := push.Packet.(packet.Sync); ok && sync.Level == p.Level() {
			synced = true
		}
	}
	testutil.AssertEqual(t, "forced region resend", forced, true)
	testutil.AssertEqual(t, "state sync broadcast", synced, true)
}

func TestAddExperienceIgnoresNonPositive(t *testing.T) {
	router := &recordingRouter{}
	p, _ := loadedPlayer(t, testDeps(router), &Record{Username: "ann", X: 10, Y: 10})
	router.reset()

	p.AddExperience(0)
	p.AddExperience(-5)

	testutil.AssertEqual(t, "experience", p.Experience(), 0)
	testutil.AssertEqual(t, "pushes", len(router.all()), 0)
}

func TestSetPositionDeadRefused(t *testing.T) {
	p, _ := loadedPlayer(t, testDeps(nil), &Record{Username: "ann", X: 10, Y: 10})
	p.Hit(nil, p.HitPoints())
	if !p.IsDead() {
		t.Fatal("expected death")
	}

	p.SetPosition(20, 20)

	testutil.AssertEqual(t, "x", p.X(), 10)
	testutil.AssertEqual(t, "y", p.Y(), 10)
}

func TestSetPositionOutOfBoundsClamps(t *testing.T) {
	p, _ := loadedPlayer(t, testDeps(nil), &Record{Username: "ann", X: 10, Y: 10})

	p.SetPosition(-3, 10)

	testutil.AssertEqual(t, "x", p.X(), 50)
	testutil.AssertEqual(t, "y", p.Y(), 50)
}

func TestTeleportStopsCombat(t *testing.T) {
	p, _ := loadedPlayer(t, testDeps(nil), &Record{Username: "ann", X: 10, Y: 10})
	target := entity.NewCharacter("mob-1", "rat", 11, 10)
	p.Combat().Begin(target)

	p.Teleport(30, 30, false)

	testutil.AssertEqual(t, "combat stopped", p.Combat().Started(), false)
	testutil.AssertEqual(t, "x", p.X(), 30)
	testutil.AssertEqual(t, "y", p.Y(), 30)
}

func TestSendMessageBothDirections(t *testing.T) {
	router := &recordingRouter{}
	deps := testDeps(router)
	ann, _ := loadedPlayer(t, deps, &Record{Username: "ann", X: 10, Y: 10})
	bob, _ := loadedPlayer(t, deps, &Record{Username: "bob", X: 12, Y: 10})
	router.reset()

	ann.SendMessage("bob", "hello")

	var toBob, toAnn *packet.PrivateMessage
	for _, push := range router.all() {
		pm, ok := push.Packet.(packet.PrivateMessage)
		if !ok {
			continue
		}
		switch push.Target {
		case bob.Instance():
			toBob = &pm
		case ann.Instance():
			toAnn = &pm
		}
	}

	if toBob == nil || toAnn == nil {
		t.Fatal("expected delivery to both ends")
	}
	testutil.AssertEqual(t, "recipient header", toBob.Header, "[From ann]")
	testutil.AssertEqual(t, "sender header", toAnn.Header, "[To bob]")
}

func TestSendMessageOfflineTarget(t *testing.T) {
	router := &recordingRouter{}
	ann, _ := loadedPlayer(t, testDeps(router), &Record{Username: "ann", X: 10, Y: 10})
	router.reset()

	ann.SendMessage("ghost", "anyone there?")

	notified := false
	for _, push := range router.all() {
		if _, ok := push.Packet.(packet.Notification); ok {
			notified = true
		}
		if _, ok := push.Packet.(packet.PrivateMessage); ok {
			t.Error("no private message should be sent to an offline target")
		}
	}
	testutil.AssertEqual(t, "notified", notified, true)
}

func TestChatMutedBlocked(t *testing.T) {
	router := &recordingRouter{}
	p, _ := loadedPlayer(t, testDeps(router), &Record{Username: "ann", X: 10, Y: 10})
	p.Mute(time.Now().Add(time.Hour))
	router.reset()

	p.Chat("hello", false)

	for _, push := range router.all() {
		if _, ok := push.Packet.(packet.Chat); ok {
			t.Error("muted player must not chat")
		}
	}
}

func TestChatGlobalRequiresAdministrator(t *testing.T) {
	router := &recordingRouter{}
	p, _ := loadedPlayer(t, testDeps(router), &Record{Username: "ann", X: 10, Y: 10})
	router.reset()

	p.Chat("hello world", true)

	pushes := router.all()
	testutil.AssertEqual(t, "pushes", len(pushes), 1)
	testutil.AssertEqual(t, "scope downgraded", pushes[0].Scope, world.PushRegions)
	chat := pushes[0].Packet.(packet.Chat)
	testutil.AssertEqual(t, "global flag", chat.Global, false)
}

func TestChatGlobalForAdministrator(t *testing.T) {
	router := &recordingRouter{}
	deps := testDeps(router)
	deps.Policy = NewRightsPolicy(nil, []string{"ann"}, false)
	p, _ := loadedPlayer(t, deps, &Record{Username: "ann", X: 10, Y: 10})
	router.reset()

	p.Chat("hello world", true)

	pushes := router.all()
	testutil.AssertEqual(t, "pushes", len(pushes), 1)
	testutil.AssertEqual(t, "scope", pushes[0].Scope, world.PushBroadcast)
}

func TestNotifyRateLimited(t *testing.T) {
	router := &recordingRouter{}
	p, _ := loadedPlayer(t, testDeps(router), &Record{Username: "ann", X: 10, Y: 10})
	router.reset()

	p.Notify("first")
	p.Notify("second")

	count := 0
	for _, push := range router.all() {
		if _, ok := push.Packet.(packet.Notification); ok {
			count++
		}
	}
	testutil.AssertEqual(t, "notifications", count, 1)
}

func TestSerializeDeadUsesSentinel(t *testing.T) {
	p, _ := loadedPlayer(t, testDeps(nil), &Record{Username: "ann", X: 10, Y: 10})
	p.Hit(nil, p.HitPoints())

	rec := p.Serialize()

	testutil.AssertEqual(t, "sentinel", rec.HitPoints, HitPointsUnset)
}

func TestIntroPushesDoorStates(t *testing.T) {
	router := &recordingRouter{}
	deps := testDeps(router)
	deps.Doors = []*door.Door{{
		ID:          1,
		X:           20,
		Y:           20,
		Requirement: door.RequirementLevel,
		Level:       10,
		ClosedTiles: map[int]door.Tile{2020: {RenderData: 7, IsColliding: true}},
		OpenTiles:   map[int]door.Tile{2020: {RenderData: 8}},
	}}

	loadedPlayer(t, deps, &Record{Username: "ann", X: 10, Y: 10})

	var doors []packet.Door
	for _, push := range router.all() {
		if d, ok := push.Packet.(packet.Door); ok {
			doors = append(doors, d)
		}
	}
	if len(doors) != 1 {
		t.Fatalf("expected one door packet, got %d", len(doors))
	}

	// Offline runs bypass the gate, so the open tile set goes out.
	testutil.AssertEqual(t, "tile index", doors[0].Indexes[0], 2020)
	testutil.AssertEqual(t, "render data", doors[0].Data[0], 8)
	testutil.AssertEqual(t, "collision", doors[0].Collisions[0], false)
}

func TestSetMusicDedupes(t *testing.T) {
	router := &recordingRouter{}
	p, _ := loadedPlayer(t, testDeps(router), &Record{Username: "ann", X: 10, Y: 10})
	router.reset()

	p.SetMusic("battle")
	p.SetMusic("battle")
	p.SetMusic("town")

	var tracks []string
	for _, push := range router.all() {
		if m, ok := push.Packet.(packet.Music); ok {
			tracks = append(tracks, m.Track)
		}
	}
	testutil.AssertEqual(t, "pushes", len(tracks), 2)
	testutil.AssertEqual(t, "first", tracks[0], "battle")
	testutil.AssertEqual(t, "second", tracks[1], "town")
}

func TestDestroyIdempotent(t *testing.T) {
	deps := testDeps(nil)
	p, _ := loadedPlayer(t, deps, &Record{Username: "ann", X: 10, Y: 10})

	p.Destroy()
	p.Destroy()

	testutil.AssertEqual(t, "destroyed", p.Destroyed(), true)
	if deps.Index.Get(p.Instance()) != nil {
		t.Error("destroyed player must leave the live index")
	}
}

func TestMinigameStateRoundTrip(t *testing.T) {
	p, _ := loadedPlayer(t, testDeps(nil), &Record{Username: "ann", X: 10, Y: 10})

	p.SetMinigameState(&MinigameState{X: 10, Y: 10})
	state := p.MinigameState()
	if state == nil {
		t.Fatal("expected snapshot")
	}
	testutil.AssertEqual(t, "x", state.X, 10)

	p.SetMinigameState(nil)
	if p.MinigameState() != nil {
		t.Error("expected snapshot cleared")
	}
}

func TestDoSerializesConcurrentMutation(t *testing.T) {
	p, _ := loadedPlayer(t, testDeps(nil), &Record{Username: "ann", X: 10, Y: 10})

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 250; i++ {
				p.Do(func() { p.IncrementCheatScore(1) })
			}
		}()
	}
	wg.Wait()

	testutil.AssertEqual(t, "cheat score", p.CheatScore(), 1000)
}

func TestRegionListenerFiresOnTeleport(t *testing.T) {
	p, _ := loadedPlayer(t, testDeps(nil), &Record{Username: "ann", X: 5, Y: 5})

	var regions []int
	p.OnRegion(func(region int) { regions = append(regions, region) })

	// Stay within the region: listener silent.
	p.Teleport(6, 6, false)
	testutil.AssertEqual(t, "same region", len(regions), 0)

	p.Teleport(55, 55, false)
	testutil.AssertEqual(t, "fired", len(regions), 1)
	testutil.AssertEqual(t, "region", regions[0], testGrid{}.GetRegion(55, 55))
}
