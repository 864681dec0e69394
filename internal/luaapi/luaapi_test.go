package luaapi

import (
	"testing"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/platformset/internal/osinfo"
	"github.com/dshills/platformset/internal/reconcile"
	"github.com/dshills/platformset/internal/schedule"
	"github.com/dshills/platformset/internal/settings"
)

func testModule(t *testing.T, store settings.Store) (*lua.LState, *Module) {
	t.Helper()

	info := osinfo.New(
		osinfo.WithGOOS("linux"),
		osinfo.WithArch("amd64"),
		osinfo.WithEnv(func(string) (string, bool) { return "", false }),
		osinfo.WithFileExists(func(string) bool { return false }),
		osinfo.WithReadFile(func(string) ([]byte, error) {
			return []byte("ID=ubuntu\nVERSION_ID=\"22.04\"\n"), nil
		}),
	)
	id := reconcile.Identity{Platform: "linux", Hostname: "box", Subsys: "none"}
	r := reconcile.New(id, schedule.NewLoop())

	m := NewModule(info, r, reconcile.NewView(store))
	L := lua.NewState()
	t.Cleanup(L.Close)
	m.Register(L)
	return L, m
}

func TestModule_OS(t *testing.T) {
	L, _ := testModule(t, settings.NewMemoryStore())

	script := `
		local platform = require("platform")
		local os = platform.os()
		result = os.id .. "/" .. os.type .. "/" .. os.version .. "/" .. tostring(os.bits)
	`
	if err := L.DoString(script); err != nil {
		t.Fatalf("DoString: %v", err)
	}
	got := L.GetGlobal("result").String()
	if want := "ubuntu/linux/22.4/64"; got != want {
		t.Errorf("result = %q, want %q", got, want)
	}
}

func TestModule_GetSet(t *testing.T) {
	store := settings.NewMemoryStoreWith(map[string]any{"theme": "dark"})
	L, _ := testModule(t, store)

	script := `
		local platform = require("platform")
		theme = platform.get("theme")
		missing = platform.get("nope", "fallback")
		platform.set("font_size", 14)
		platform.set("rulers", {80, 100})
	`
	if err := L.DoString(script); err != nil {
		t.Fatalf("DoString: %v", err)
	}
	if got := L.GetGlobal("theme").String(); got != "dark" {
		t.Errorf("theme = %q, want dark", got)
	}
	if got := L.GetGlobal("missing").String(); got != "fallback" {
		t.Errorf("missing = %q, want fallback", got)
	}
	if got := store.Get("font_size", nil); got != 14 {
		t.Errorf("font_size = %v (%T), want 14", got, got)
	}
	rulers, ok := store.Get("rulers", nil).([]any)
	if !ok || len(rulers) != 2 || rulers[0] != 80 {
		t.Errorf("rulers = %v, want [80 100]", store.Get("rulers", nil))
	}
}

func TestModule_Keys(t *testing.T) {
	L, _ := testModule(t, settings.NewMemoryStore())

	script := `
		local platform = require("platform")
		local keys = platform.keys()
		first = keys[1]
		count = #keys
	`
	if err := L.DoString(script); err != nil {
		t.Fatalf("DoString: %v", err)
	}
	if got := L.GetGlobal("first").String(); got != "user_linux" {
		t.Errorf("first key = %q, want user_linux", got)
	}
	if got := int(L.GetGlobal("count").(lua.LNumber)); got != 5 {
		t.Errorf("key count = %d, want 5", got)
	}
}

func TestModule_Reconcile(t *testing.T) {
	store := settings.NewMemoryStoreWith(map[string]any{
		"linux": map[string]any{"x": 1},
	})
	L, _ := testModule(t, store)

	script := `
		local platform = require("platform")
		platform.reconcile()
		x = platform.get("x")
	`
	if err := L.DoString(script); err != nil {
		t.Fatalf("DoString: %v", err)
	}
	if got := int(L.GetGlobal("x").(lua.LNumber)); got != 1 {
		t.Errorf("x = %d, want 1", got)
	}
}

func TestBridge_RoundTrip(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	in := map[string]any{
		"s":    "text",
		"n":    3,
		"f":    1.5,
		"b":    true,
		"list": []any{1, 2, 3},
		"map":  map[string]any{"k": "v"},
	}

	out, ok := toGo(toLua(L, in)).(map[string]any)
	if !ok {
		t.Fatalf("round trip produced %T, want map", toGo(toLua(L, in)))
	}
	if out["s"] != "text" || out["n"] != 3 || out["f"] != 1.5 || out["b"] != true {
		t.Errorf("scalars mangled: %v", out)
	}
	list, ok := out["list"].([]any)
	if !ok || len(list) != 3 || list[2] != 3 {
		t.Errorf("list mangled: %v", out["list"])
	}
	inner, ok := out["map"].(map[string]any)
	if !ok || inner["k"] != "v" {
		t.Errorf("nested map mangled: %v", out["map"])
	}
}

func TestBridge_Cycle(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	tbl := L.NewTable()
	tbl.RawSetString("self", tbl)

	out, ok := toGo(tbl).(map[string]any)
	if !ok {
		t.Fatalf("cyclic table produced %T, want map", toGo(tbl))
	}
	if out["self"] != nil {
		t.Errorf("cycle not broken: %v", out["self"])
	}
}
