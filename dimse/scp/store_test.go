package scp_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeninja55/radx-adapter/dimse/dul"
	"github.com/codeninja55/radx-adapter/dimse/scp"
	"github.com/codeninja55/radx-adapter/dimse/scu"
	"github.com/codeninja55/radx-adapter/internal/bus"
	"github.com/codeninja55/radx-adapter/internal/model"
	"github.com/codeninja55/radx-adapter/internal/reception"
	"github.com/codeninja55/radx-adapter/internal/registry"
)

var storeContexts = map[string][]string{
	"1.2.840.10008.1.1":         {"1.2.840.10008.1.2"},
	"1.2.840.10008.5.1.4.1.1.2": {"1.2.840.10008.1.2"},
}

// TestCStoreSCP persists a single instance to disk and verifies it is
// committed to the bus on association release.
func TestCStoreSCP(t *testing.T) {
	root := t.TempDir()
	store := reception.New(root, nil)
	b := bus.New(8, nil)
	sub := b.Subscribe("STORE_SCP")

	serverConfig := scp.Config{
		ListenAddr:        "127.0.0.1:11116",
		SupportedContexts: storeContexts,
		Registry:          testRegistry("STORE_SCP"),
		Store:             store,
		Bus:               b,
	}

	server, err := scp.NewServer(serverConfig)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	require.NoError(t, server.Listen(ctx))
	defer server.Shutdown(ctx)

	time.Sleep(100 * time.Millisecond)

	sopClassUID := "1.2.840.10008.5.1.4.1.1.2"
	sopInstanceUID := "1.2.840.12345.1.1.1.1"
	ds := newTestInstance("PAT1", "STUDY1", "SERIES1", sopInstanceUID, sopClassUID)

	client := scu.NewClient(scu.Config{
		CallingAETitle: "STORE_SCU",
		CalledAETitle:  "STORE_SCP",
		RemoteAddr:     "127.0.0.1:11116",
		PresentationContexts: []dul.PresentationContextRQ{
			{ID: 1, AbstractSyntax: "1.2.840.10008.1.1", TransferSyntaxes: []string{"1.2.840.10008.1.2"}},
			{ID: 3, AbstractSyntax: sopClassUID, TransferSyntaxes: []string{"1.2.840.10008.1.2"}},
		},
	})

	require.NoError(t, client.Connect(ctx))

	require.NoError(t, client.Store(ctx, ds, sopClassUID, sopInstanceUID))
	require.NoError(t, client.Close(ctx))

	select {
	case ref := <-sub:
		assert.Equal(t, sopInstanceUID, ref.SOPInstanceUID)
		assert.Equal(t, "STORE_SCU", ref.CallingAETitle)
		_, statErr := os.Stat(ref.AbsolutePath)
		assert.NoError(t, statErr)
	case <-time.After(5 * time.Second):
		t.Fatal("instance was not committed to the bus")
	}
}

// TestCStoreSCP_MultipleInstances verifies every instance in an
// association is committed once the association releases.
func TestCStoreSCP_MultipleInstances(t *testing.T) {
	root := t.TempDir()
	store := reception.New(root, nil)
	b := bus.New(8, nil)
	sub := b.Subscribe("STORE_SCP")

	serverConfig := scp.Config{
		ListenAddr:        "127.0.0.1:11117",
		SupportedContexts: storeContexts,
		Registry:          testRegistry("STORE_SCP"),
		Store:             store,
		Bus:               b,
	}

	server, err := scp.NewServer(serverConfig)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	require.NoError(t, server.Listen(ctx))
	defer server.Shutdown(ctx)

	time.Sleep(100 * time.Millisecond)

	sopClassUID := "1.2.840.10008.5.1.4.1.1.2"

	client := scu.NewClient(scu.Config{
		CallingAETitle: "STORE_SCU",
		CalledAETitle:  "STORE_SCP",
		RemoteAddr:     "127.0.0.1:11117",
		PresentationContexts: []dul.PresentationContextRQ{
			{ID: 1, AbstractSyntax: "1.2.840.10008.1.1", TransferSyntaxes: []string{"1.2.840.10008.1.2"}},
			{ID: 3, AbstractSyntax: sopClassUID, TransferSyntaxes: []string{"1.2.840.10008.1.2"}},
		},
	})

	require.NoError(t, client.Connect(ctx))

	numInstances := 5
	for i := 0; i < numInstances; i++ {
		sopInstanceUID := fmt.Sprintf("1.2.840.12345.1.1.1.%d", i+1)
		ds := newTestInstance("PAT1", "STUDY1", "SERIES1", sopInstanceUID, sopClassUID)
		require.NoError(t, client.Store(ctx, ds, sopClassUID, sopInstanceUID))
	}
	require.NoError(t, client.Close(ctx))

	for i := 0; i < numInstances; i++ {
		select {
		case <-sub:
		case <-time.After(5 * time.Second):
			t.Fatalf("expected %d committed instances, got %d", numInstances, i)
		}
	}
}

// TestCStoreSCP_AcceptsAnyStorageSyntax verifies §4.3 rule 5 / §6:
// storage presentation contexts for SOP classes never listed in
// SupportedContexts are still accepted, with the peer's first proposed
// transfer syntax, rather than only the one SOP class configured ahead
// of time.
func TestCStoreSCP_AcceptsAnyStorageSyntax(t *testing.T) {
	root := t.TempDir()
	store := reception.New(root, nil)
	b := bus.New(8, nil)
	sub := b.Subscribe("STORE_SCP")

	serverConfig := scp.Config{
		ListenAddr:        "127.0.0.1:11119",
		SupportedContexts: verificationContexts, // no storage SOP class configured
		Registry:          testRegistry("STORE_SCP"),
		Store:             store,
		Bus:               b,
	}

	server, err := scp.NewServer(serverConfig)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	require.NoError(t, server.Listen(ctx))
	defer server.Shutdown(ctx)

	time.Sleep(100 * time.Millisecond)

	// MR Image Storage, never added to SupportedContexts anywhere.
	sopClassUID := "1.2.840.10008.5.1.4.1.1.4"
	sopInstanceUID := "1.2.840.12345.1.1.2.1"
	ds := newTestInstance("PAT1", "STUDY1", "SERIES1", sopInstanceUID, sopClassUID)

	client := scu.NewClient(scu.Config{
		CallingAETitle: "STORE_SCU",
		CalledAETitle:  "STORE_SCP",
		RemoteAddr:     "127.0.0.1:11119",
		PresentationContexts: []dul.PresentationContextRQ{
			{ID: 1, AbstractSyntax: "1.2.840.10008.1.1", TransferSyntaxes: []string{"1.2.840.10008.1.2"}},
			{ID: 3, AbstractSyntax: sopClassUID, TransferSyntaxes: []string{"1.2.840.10008.1.2.1"}},
		},
	})

	require.NoError(t, client.Connect(ctx))
	require.NoError(t, client.Store(ctx, ds, sopClassUID, sopInstanceUID))
	require.NoError(t, client.Close(ctx))

	select {
	case ref := <-sub:
		assert.Equal(t, sopInstanceUID, ref.SOPInstanceUID)
	case <-time.After(5 * time.Second):
		t.Fatal("instance was not committed to the bus")
	}
}

// TestCStoreSCP_DuplicateSOPInstance verifies the overwrite-conflict
// decision: a second association storing the same SOPInstanceUID for a
// called AE with overwriteSameInstance=false is rejected at the DIMSE
// level and never reaches the bus.
func TestCStoreSCP_DuplicateSOPInstance(t *testing.T) {
	root := t.TempDir()
	store := reception.New(root, nil)
	b := bus.New(8, nil)
	sub := b.Subscribe("STORE_SCP")

	reg := registry.New(registry.Snapshot{
		CalledAEs: map[string]model.CalledAE{
			"STORE_SCP": {Name: "STORE_SCP", AETitle: "STORE_SCP", OverwriteSameInstance: false},
		},
	})

	serverConfig := scp.Config{
		ListenAddr:        "127.0.0.1:11118",
		SupportedContexts: storeContexts,
		Registry:          reg,
		Store:             store,
		Bus:               b,
	}

	server, err := scp.NewServer(serverConfig)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	require.NoError(t, server.Listen(ctx))
	defer server.Shutdown(ctx)

	time.Sleep(100 * time.Millisecond)

	sopClassUID := "1.2.840.10008.5.1.4.1.1.2"
	sopInstanceUID := "1.2.840.12345.1.1.1.1"

	dial := func() *scu.Client {
		c := scu.NewClient(scu.Config{
			CallingAETitle: "STORE_SCU",
			CalledAETitle:  "STORE_SCP",
			RemoteAddr:     "127.0.0.1:11118",
			PresentationContexts: []dul.PresentationContextRQ{
				{ID: 1, AbstractSyntax: "1.2.840.10008.1.1", TransferSyntaxes: []string{"1.2.840.10008.1.2"}},
				{ID: 3, AbstractSyntax: sopClassUID, TransferSyntaxes: []string{"1.2.840.10008.1.2"}},
			},
		})
		require.NoError(t, c.Connect(ctx))
		return c
	}

	first := dial()
	ds1 := newTestInstance("PAT1", "STUDY1", "SERIES1", sopInstanceUID, sopClassUID)
	require.NoError(t, first.Store(ctx, ds1, sopClassUID, sopInstanceUID))
	require.NoError(t, first.Close(ctx))

	select {
	case <-sub:
	case <-time.After(5 * time.Second):
		t.Fatal("first instance was not committed")
	}

	second := dial()
	ds2 := newTestInstance("PAT1", "STUDY1", "SERIES1", sopInstanceUID, sopClassUID)
	err = second.Store(ctx, ds2, sopClassUID, sopInstanceUID)
	assert.Error(t, err)
	require.NoError(t, second.Close(ctx))
}
