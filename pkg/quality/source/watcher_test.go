package source

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestDebouncer_CoalescesBursts(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)
	defer d.Stop()

	var fired atomic.Int32
	for i := 0; i < 10; i++ {
		d.Trigger(func() { fired.Add(1) })
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(150 * time.Millisecond)
	if got := fired.Load(); got != 1 {
		t.Errorf("callback fired %d times for one burst, want 1", got)
	}
}

func TestDebouncer_SeparateQuietPeriodsFireSeparately(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	var fired atomic.Int32
	d.Trigger(func() { fired.Add(1) })
	time.Sleep(80 * time.Millisecond)
	d.Trigger(func() { fired.Add(1) })
	time.Sleep(80 * time.Millisecond)

	if got := fired.Load(); got != 2 {
		t.Errorf("callback fired %d times, want 2", got)
	}
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	var fired atomic.Int32
	d.Trigger(func() { fired.Add(1) })
	d.Stop()

	time.Sleep(120 * time.Millisecond)
	if got := fired.Load(); got != 0 {
		t.Errorf("callback fired %d times after Stop, want 0", got)
	}
}

func TestFileWatcher_EventFiltering(t *testing.T) {
	fw := &FileWatcher{config: DefaultWatcherConfig()}

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"yaml write", fsnotify.Event{Name: "/rules/base.yaml", Op: fsnotify.Write}, true},
		{"yml create", fsnotify.Event{Name: "/rules/base.yml", Op: fsnotify.Create}, true},
		{"uppercase extension", fsnotify.Event{Name: "/rules/BASE.YAML", Op: fsnotify.Write}, true},
		{"chmod ignored", fsnotify.Event{Name: "/rules/base.yaml", Op: fsnotify.Chmod}, false},
		{"wrong extension", fsnotify.Event{Name: "/rules/notes.txt", Op: fsnotify.Write}, false},
		{"hidden file", fsnotify.Event{Name: "/rules/.swap.yaml", Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fw.shouldProcessEvent(tt.event); got != tt.want {
				t.Errorf("shouldProcessEvent(%v) = %v, want %v", tt.event, got, tt.want)
			}
		})
	}
}
