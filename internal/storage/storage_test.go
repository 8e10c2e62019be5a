package storage

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/eugenenazirov/container-load/internal/calculator"
)

func TestNewMemoryStorageReturnsDefaultProfiles(t *testing.T) {
	t.Parallel()

	store := NewMemoryStorage()

	got, err := store.ListProfiles()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diff := cmp.Diff(DefaultProfiles(), got); diff != "" {
		t.Fatalf("unexpected profiles (-want +got):\n%s", diff)
	}

	// ensure mutation safety
	got[0].MaxWeight = 1
	again, err := store.GetProfile(got[0].ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.MaxWeight == 1 {
		t.Fatalf("expected stored profile to be unaffected by caller mutation")
	}
}

func TestGetProfileIgnoresCase(t *testing.T) {
	t.Parallel()

	store := NewMemoryStorage()

	p, err := store.GetProfile(" 40FT-HC ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.InnerHeight != 269 {
		t.Fatalf("expected high-cube inner height 269, got %v", p.InnerHeight)
	}

	if _, err := store.GetProfile("45ft"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestAddProfileRegistersCustomContainer(t *testing.T) {
	t.Parallel()

	store := NewMemoryStorage()
	reefer := calculator.ContainerProfile{
		ID:                "20ft-reefer",
		Name:              "20ft Reefer",
		InnerLength:       544,
		InnerWidth:        229,
		InnerHeight:       226,
		MaxWeight:         27400,
		VolumeCubicMeters: 28.3,
	}
	if err := store.AddProfile(reefer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.GetProfile("20FT-REEFER")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(reefer, got); diff != "" {
		t.Fatalf("unexpected profile (-want +got):\n%s", diff)
	}

	all, err := store.ListProfiles()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != len(DefaultProfiles())+1 || all[0].ID != "20ft-reefer" {
		t.Fatalf("expected reefer listed first by volume, got %v", all)
	}
}

func TestAddProfileRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	valid := calculator.ContainerProfile{ID: "x", Name: "X", InnerLength: 1, InnerWidth: 1, InnerHeight: 1, MaxWeight: 1, VolumeCubicMeters: 1}

	testCases := []struct {
		mutate  func(p *calculator.ContainerProfile)
		wantErr error
	}{
		{func(p *calculator.ContainerProfile) { p.ID = " " }, ErrInvalidProfile},
		{func(p *calculator.ContainerProfile) { p.Name = "" }, ErrInvalidProfile},
		{func(p *calculator.ContainerProfile) { p.MaxWeight = 0 }, calculator.ErrInvalidDimension},
		{func(p *calculator.ContainerProfile) { p.InnerWidth = -3 }, calculator.ErrInvalidDimension},
		{func(p *calculator.ContainerProfile) { p.ID = "20FT" }, ErrProfileExists},
	}

	for idx, tc := range testCases {
		tc := tc
		t.Run(fmt.Sprintf("case_%d", idx), func(t *testing.T) {
			store := NewMemoryStorage()
			profile := valid
			tc.mutate(&profile)
			if err := store.AddProfile(profile); !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestMemoryStorageConcurrentAccess(t *testing.T) {
	store := NewMemoryStorage()
	var wg sync.WaitGroup

	for i := 0; i < 32; i++ {
		wg.Add(2)

		go func(offset int) {
			defer wg.Done()
			profile := calculator.ContainerProfile{
				ID:                fmt.Sprintf("custom-%d", offset),
				Name:              "Custom",
				InnerLength:       100 + float64(offset),
				InnerWidth:        100,
				InnerHeight:       100,
				MaxWeight:         1000,
				VolumeCubicMeters: 1,
			}
			if err := store.AddProfile(profile); err != nil {
				t.Errorf("AddProfile failed: %v", err)
			}
		}(i)

		go func() {
			defer wg.Done()
			if _, err := store.ListProfiles(); err != nil {
				t.Errorf("ListProfiles failed: %v", err)
			}
		}()
	}

	wg.Wait()

	all, err := store.ListProfiles()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 32+len(DefaultProfiles()) {
		t.Fatalf("expected %d profiles, got %d", 32+len(DefaultProfiles()), len(all))
	}
}
