package packet

// Welcome carries the initial state snapshot sent once intro completes.
type Welcome struct {
	Instance    string `json:"instance"`
	Username    string `json:"username"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Rights      int    `json:"rights"`
	HitPoints   int    `json:"hitPoints"`
	MaxHP       int    `json:"maxHitPoints"`
	Mana        int    `json:"mana"`
	MaxMana     int    `json:"maxMana"`
	Experience  int    `json:"experience"`
	Level       int    `json:"level"`
	Orientation int    `json:"orientation"`
	Notice      string `json:"notice,omitempty"`
}

func (Welcome) Opcode() Opcode { return OpWelcome }

// Spawn announces an entity appearing in the world, either freshly created
// or returning after a respawn.
type Spawn struct {
	Instance string `json:"instance"`
	Name     string `json:"name,omitempty"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Level    int    `json:"level,omitempty"`
}

func (Spawn) Opcode() Opcode { return OpSpawn }

// Movement announces a position change to everyone who can see the mover.
type Movement struct {
	Instance    string `json:"instance"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Orientation int    `json:"orientation"`
	Forced      bool   `json:"forced,omitempty"`
}

func (Movement) Opcode() Opcode { return OpMovement }

// Teleport is a hard position change; clients snap instead of interpolating.
type Teleport struct {
	Instance  string `json:"instance"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Animation bool   `json:"animation,omitempty"`
}

func (Teleport) Opcode() Opcode { return OpTeleport }

// Experience in its region-scoped form carries only what other players may
// learn: who gained, and the level if it changed. The private form adds the
// raw counters and thresholds for the owning client's progress bar.
type Experience struct {
	Instance   string `json:"instance"`
	Amount     int    `json:"amount,omitempty"`
	Level      int    `json:"level,omitempty"`
	Experience int    `json:"experience,omitempty"`
	NextExp    int    `json:"nextExperience,omitempty"`
	PrevExp    int    `json:"prevExperience,omitempty"`
	Skill      int    `json:"skill,omitempty"`
}

func (Experience) Opcode() Opcode { return OpExperience }

// Skill reports one discipline's full state to its owner.
type Skill struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Level      int    `json:"level"`
	Experience int    `json:"experience"`
}

func (Skill) Opcode() Opcode { return OpSkill }

// Points carries current/max vitals in one frame.
type Points struct {
	Instance  string `json:"instance"`
	HitPoints int    `json:"hitPoints"`
	MaxHP     int    `json:"maxHitPoints"`
	Mana      int    `json:"mana"`
	MaxMana   int    `json:"maxMana"`
}

func (Points) Opcode() Opcode { return OpPoints }

// Sync is the full player state broadcast on material change.
type Sync struct {
	Instance  string          `json:"instance"`
	Level     int             `json:"level"`
	X         int             `json:"x"`
	Y         int             `json:"y"`
	HitPoints int             `json:"hitPoints"`
	MaxHP     int             `json:"maxHitPoints"`
	PvP       bool            `json:"pvp"`
	Equipment map[string]Item `json:"equipment,omitempty"`
}

func (Sync) Opcode() Opcode { return OpSync }

// Item is the wire form of an equipped or carried object.
type Item struct {
	Key          string `json:"key"`
	Count        int    `json:"count,omitempty"`
	AbilityLevel int    `json:"abilityLevel,omitempty"`
}

// Notification is a popup or infobox message for one player.
type Notification struct {
	Title string `json:"title,omitempty"`
	Text  string `json:"text"`
}

func (Notification) Opcode() Opcode { return OpNotification }

// Chat is public speech scoped to nearby regions.
type Chat struct {
	Instance string `json:"instance"`
	Name     string `json:"name"`
	Text     string `json:"text"`
	Global   bool   `json:"global,omitempty"`
}

func (Chat) Opcode() Opcode { return OpChat }

// PrivateMessage is delivered to both ends of a whisper with
// direction-specific formatting already applied.
type PrivateMessage struct {
	Header string `json:"header"`
	Text   string `json:"text"`
}

func (PrivateMessage) Opcode() Opcode { return OpPrivateMessage }

// Countdown is the minigame lobby's periodic corrective countdown sync.
type Countdown struct {
	Seconds int    `json:"seconds"`
	Text    string `json:"text,omitempty"`
}

func (Countdown) Opcode() Opcode { return OpCountdown }

// Despawn removes an entity from the client's view.
type Despawn struct {
	Instance string `json:"instance"`
}

func (Despawn) Opcode() Opcode { return OpDespawn }

// Door pushes one door's computed tile state to a player.
type Door struct {
	Indexes    []int  `json:"indexes"`
	Data       []int  `json:"data"`
	Collisions []bool `json:"collisions"`
}

func (Door) Opcode() Opcode { return OpDoor }

// Region tells the client to (re)load region data around the player.
// Forced means the cached render is stale and must be rebuilt.
type Region struct {
	Forced bool `json:"forced,omitempty"`
}

func (Region) Opcode() Opcode { return OpRegion }

// Music switches the client's background track.
type Music struct {
	Track string `json:"track"`
}

func (Music) Opcode() Opcode { return OpMusic }
