// Package scp is the DICOM storage-only SCP (C3): association
// admission, C-ECHO/C-STORE handling, and commit-on-release /
// discard-on-abort of buffered instances. Query/Retrieve services
// (C-FIND/C-GET/C-MOVE) are out of scope.
package scp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/codeninja55/radx-adapter/dicom"
	"github.com/codeninja55/radx-adapter/dimse/dimse"
	"github.com/codeninja55/radx-adapter/dimse/dul"
	"github.com/codeninja55/radx-adapter/dimse/pdu"
	"github.com/codeninja55/radx-adapter/internal/model"
	"github.com/codeninja55/radx-adapter/internal/reclaim"
	"github.com/codeninja55/radx-adapter/internal/reception"
	"github.com/codeninja55/radx-adapter/internal/registry"
)

// Gate is the subset of storagegate.Gate the SCP needs for admission.
type Gate interface {
	CanStore() bool
}

// Bus is the subset of bus.Bus the SCP needs to commit instances.
type Bus interface {
	Publish(calledAETitle string, ref model.InstanceRef) bool
}

// Config holds SCP server configuration.
type Config struct {
	ListenAddr             string
	MaxPDULength           uint32
	MaxAssociations        int
	SupportedContexts      map[string][]string // abstract syntax -> transfer syntaxes
	RejectUnknownSources   bool
	ImplementationClassUID string
	ImplementationVersion  string

	Registry  *registry.Registry
	Gate      Gate
	Store     *reception.Store
	Bus       Bus
	Reclaim   *reclaim.Queue
	Logger    *log.Logger
}

// Server is the storage SCP: an accept loop handing each connection to
// its own association handler.
type Server struct {
	config       Config
	listener     net.Listener
	associations map[*dul.Association]*associationHandler
	mu           sync.RWMutex
	activeConns  int32
	wg           sync.WaitGroup
	shutdownCh   chan struct{}
	shutdownOnce sync.Once
}

// DefaultMaxAssociations is used when Config.MaxAssociations is unset.
const DefaultMaxAssociations = 25

// MaxAssociationsCap is the hard ceiling on Config.MaxAssociations.
const MaxAssociationsCap = 1000

// NewServer creates a new SCP server.
func NewServer(config Config) (*Server, error) {
	if config.MaxPDULength == 0 {
		config.MaxPDULength = pdu.DefaultMaxPDULength
	}
	if config.MaxAssociations == 0 {
		config.MaxAssociations = DefaultMaxAssociations
	}
	if config.MaxAssociations > MaxAssociationsCap {
		return nil, fmt.Errorf("maxAssociations %d exceeds the hard cap of %d", config.MaxAssociations, MaxAssociationsCap)
	}

	return &Server{
		config:       config,
		associations: make(map[*dul.Association]*associationHandler),
		shutdownCh:   make(chan struct{}),
	}, nil
}

// ActiveAssociations reports the number of currently open associations,
// for health reporting.
func (s *Server) ActiveAssociations() int {
	return int(atomic.LoadInt32(&s.activeConns))
}

// Listen starts the server listening for connections.
func (s *Server) Listen(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.config.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	s.listener = listener

	go s.acceptLoop(ctx)

	return nil
}

// acceptLoop accepts incoming connections until cancellation or
// shutdown, per §5's cancellation contract: stop accepting new
// associations but let in-flight ones drain.
func (s *Server) acceptLoop(ctx context.Context) {
	for {
		select {
		case <-s.shutdownCh:
			return
		case <-ctx.Done():
			return
		default:
		}

		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.shutdownCh:
				return
			case <-ctx.Done():
				return
			default:
				continue
			}
		}

		s.wg.Add(1)
		go s.handleConnection(ctx, conn)
	}
}

// handleConnection runs admission and the per-association message loop
// for a single accepted TCP connection.
func (s *Server) handleConnection(ctx context.Context, netConn net.Conn) {
	defer s.wg.Done()
	defer func() { _ = netConn.Close() }()

	atomic.AddInt32(&s.activeConns, 1)
	defer atomic.AddInt32(&s.activeConns, -1)

	conn := dul.NewConnection(netConn)
	conn.SetMaxPDULength(s.config.MaxPDULength)

	if err := conn.TriggerTransportIndication(ctx); err != nil {
		return
	}

	pduMsg, err := conn.ReadPDU(ctx)
	if err != nil {
		return
	}
	assocRQ, ok := pduMsg.(*pdu.AssociateRQ)
	if !ok {
		return
	}

	calledAE := pdu.TrimAETitle(assocRQ.CalledAETitle)
	callingAE := pdu.TrimAETitle(assocRQ.CallingAETitle)
	assoc := dul.NewAssociation(conn, calledAE, callingAE)

	calledAEEntry, rejectResult, rejectSource, rejectReason, ok := s.admit(calledAE, callingAE, netConn.RemoteAddr())
	if !ok {
		s.logf("warn", "association rejected", "calledAe", calledAE, "callingAe", callingAE, "remote", netConn.RemoteAddr().String())
		_ = assoc.RejectAssociation(ctx, rejectResult, rejectSource, rejectReason)
		return
	}

	if atomic.LoadInt32(&s.activeConns) > int32(s.config.MaxAssociations) {
		_ = assoc.RejectAssociation(ctx, pdu.AssociateRJResultTransient, pdu.AssociateRJSourceServiceProviderPresentation, rejectReasonLocalLimitExceeded)
		return
	}

	if err := assoc.AcceptAssociation(ctx, assocRQ, s.config.SupportedContexts); err != nil {
		return
	}

	handler := &associationHandler{
		server:        s,
		assoc:         assoc,
		conn:          conn,
		reassembler:   dimse.NewMessageReassembler(),
		calledAE:      calledAEEntry,
		associationID: newAssociationID(),
	}

	s.mu.Lock()
	s.associations[assoc] = handler
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.associations, assoc)
		s.mu.Unlock()
	}()

	handler.handleMessages(ctx)
}

// Rejection reasons not already named in pdu's const block. The two
// presentation-related reasons (temporary congestion vs. local limit
// exceeded) let a peer distinguish "try again later, we're out of
// disk" from "try again later, too many associations are already open"
// per §6, instead of collapsing both into one reason code.
const (
	rejectReasonCalledAEUnknown        uint8 = 7
	rejectReasonCallingAENotRecognized uint8 = 3
	rejectReasonTemporaryCongestion    uint8 = 1
	rejectReasonLocalLimitExceeded     uint8 = 2
)

// peerHost extracts the host/IP portion of remote, falling back to its
// full string form if it isn't a host:port address.
func peerHost(remote net.Addr) string {
	if remote == nil {
		return ""
	}
	host, _, err := net.SplitHostPort(remote.String())
	if err != nil {
		return remote.String()
	}
	return host
}

// admit runs §4.3's admission rules in order: called AE must exist in
// the registry, the calling AE must be an allowed source (by AE title
// and host/IP) when rejectUnknownSources is set, and the storage gate
// must have room. Transfer-syntax negotiation itself is left to
// AcceptAssociation.
func (s *Server) admit(calledAE, callingAE string, remote net.Addr) (model.CalledAE, uint8, uint8, uint8, bool) {
	var snap *registry.Snapshot
	if s.config.Registry != nil {
		snap = s.config.Registry.Load()
	}

	var ae model.CalledAE
	if snap != nil {
		var found bool
		ae, found = snap.CalledAE(calledAE)
		if !found {
			return model.CalledAE{}, pdu.AssociateRJResultPermanent, pdu.AssociateRJSourceServiceUser, rejectReasonCalledAEUnknown, false
		}
	}

	if s.config.RejectUnknownSources && snap != nil {
		if !snap.IsAllowedSource(callingAE, peerHost(remote)) {
			return model.CalledAE{}, pdu.AssociateRJResultPermanent, pdu.AssociateRJSourceServiceUser, rejectReasonCallingAENotRecognized, false
		}
	}

	if s.config.Gate != nil && !s.config.Gate.CanStore() {
		return model.CalledAE{}, pdu.AssociateRJResultTransient, pdu.AssociateRJSourceServiceProviderPresentation, rejectReasonTemporaryCongestion, false
	}

	return ae, 0, 0, 0, true
}

func (s *Server) logf(level, msg string, kv ...any) {
	if s.config.Logger == nil {
		return
	}
	switch level {
	case "warn":
		s.config.Logger.Warn(msg, kv...)
	case "error":
		s.config.Logger.Error(msg, kv...)
	default:
		s.config.Logger.Info(msg, kv...)
	}
}

// Shutdown gracefully shuts down the server, waiting up to the context
// deadline for in-flight associations to release or abort.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		close(s.shutdownCh)

		if s.listener != nil {
			_ = s.listener.Close()
		}

		done := make(chan struct{})
		go func() {
			s.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-ctx.Done():
			err = ctx.Err()
		}
	})

	return err
}

// associationID is a process-local monotonically increasing counter,
// used as the second path segment under the managed storage root.
var associationIDCounter uint64

func newAssociationID() uint64 {
	return atomic.AddUint64(&associationIDCounter, 1)
}

// associationHandler handles messages for a single association, and
// buffers committed instances until release (commit) or abort
// (discard-to-reclaim), per §4.3's ordering contract.
type associationHandler struct {
	server        *Server
	assoc         *dul.Association
	conn          *dul.Connection
	reassembler   *dimse.MessageReassembler
	calledAE      model.CalledAE
	associationID uint64

	mu       sync.Mutex
	buffered []model.InstanceRef
}

func (h *associationHandler) handleMessages(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.discardBuffered()
			return
		default:
		}

		pduMsg, err := h.conn.ReadPDU(ctx)
		if err != nil {
			h.discardBuffered()
			return
		}

		switch p := pduMsg.(type) {
		case *pdu.DataTF:
			if err := h.handleDataPDU(ctx, p); err != nil {
				h.discardBuffered()
				return
			}

		case *pdu.ReleaseRQ:
			_, _ = h.conn.StateMachine().ProcessEvent(dul.AE12)
			h.commitBuffered()
			_, _ = h.conn.StateMachine().ProcessEvent(dul.AE14)
			_ = h.conn.SendPDU(ctx, &pdu.ReleaseRP{})
			return

		case *pdu.Abort:
			h.discardBuffered()
			return
		}
	}
}

// commitBuffered publishes every instance buffered during this
// association, in reception order, per §5's ordering guarantee.
func (h *associationHandler) commitBuffered() {
	h.mu.Lock()
	items := h.buffered
	h.buffered = nil
	h.mu.Unlock()

	for _, ref := range items {
		if h.server.config.Bus == nil {
			continue
		}
		if !h.server.config.Bus.Publish(ref.CalledAETitle, ref) {
			h.enqueueReclaim(ref)
		}
	}
}

// discardBuffered routes every buffered instance to the reclaimer: this
// association never reached A-RELEASE, so nothing it persisted should
// be treated as committed.
func (h *associationHandler) discardBuffered() {
	h.mu.Lock()
	items := h.buffered
	h.buffered = nil
	h.mu.Unlock()

	for _, ref := range items {
		h.enqueueReclaim(ref)
	}
}

func (h *associationHandler) enqueueReclaim(ref model.InstanceRef) {
	if h.server.config.Reclaim != nil {
		h.server.config.Reclaim.Enqueue(ref)
	}
}

func (h *associationHandler) handleDataPDU(ctx context.Context, dataPDU *pdu.DataTF) error {
	msg, err := h.reassembler.AddPDU(dataPDU)
	if err != nil {
		return err
	}
	if msg == nil {
		return nil
	}

	switch msg.CommandSet.CommandField {
	case dimse.CommandCEchoRQ:
		return h.handleCEcho(ctx, msg)
	case dimse.CommandCStoreRQ:
		return h.handleCStore(ctx, msg)
	default:
		return fmt.Errorf("unsupported command: 0x%04X", msg.CommandSet.CommandField)
	}
}

func (h *associationHandler) handleCEcho(ctx context.Context, msg *dimse.Message) error {
	rsp := &dimse.CommandSet{
		CommandField:              dimse.CommandCEchoRSP,
		MessageIDBeingRespondedTo: msg.CommandSet.MessageID,
		CommandDataSetType:        dimse.DataSetNotPresent,
		Status:                    dimse.StatusSuccess,
		AffectedSOPClassUID:       msg.CommandSet.AffectedSOPClassUID,
	}
	return h.sendResponse(ctx, rsp, nil, msg.PresentationContextID)
}

func (h *associationHandler) handleCStore(ctx context.Context, msg *dimse.Message) error {
	status := dimse.StatusSuccess

	if h.calledAE.IgnoresSOPClass(msg.CommandSet.AffectedSOPClassUID) {
		// Acknowledged but never persisted, per the called AE's
		// ignoredSopClasses set.
		return h.sendStoreResponse(ctx, msg, status)
	}

	if h.server.config.Store == nil || msg.DataSet == nil {
		return h.sendStoreResponse(ctx, msg, dimse.StatusProcessingFailure)
	}

	ref, err := h.server.config.Store.Persist(
		msg.DataSet,
		h.assoc.CalledAETitle(),
		h.assoc.CallingAETitle(),
		h.associationID,
		time.Now(),
		h.calledAE.OverwriteSameInstance,
	)
	switch {
	case err == nil:
		h.mu.Lock()
		h.buffered = append(h.buffered, ref)
		h.mu.Unlock()
	case errors.Is(err, reception.ErrOverwriteConflict):
		status = dimse.StatusDuplicateSOPInstance
	case errors.Is(err, reception.ErrDiskFull):
		status = dimse.StatusOutOfResources
	default:
		status = dimse.StatusProcessingFailure
	}

	return h.sendStoreResponse(ctx, msg, status)
}

func (h *associationHandler) sendStoreResponse(ctx context.Context, msg *dimse.Message, status uint16) error {
	rsp := &dimse.CommandSet{
		CommandField:              dimse.CommandCStoreRSP,
		MessageIDBeingRespondedTo: msg.CommandSet.MessageID,
		CommandDataSetType:        dimse.DataSetNotPresent,
		Status:                    status,
		AffectedSOPClassUID:       msg.CommandSet.AffectedSOPClassUID,
		AffectedSOPInstanceUID:    msg.CommandSet.AffectedSOPInstanceUID,
	}
	return h.sendResponse(ctx, rsp, nil, msg.PresentationContextID)
}

func (h *associationHandler) sendResponse(ctx context.Context, cmd *dimse.CommandSet, ds *dicom.DataSet, pcID uint8) error {
	msg := &dimse.Message{
		CommandSet:            cmd,
		DataSet:               ds,
		PresentationContextID: pcID,
	}

	pdus, err := msg.Encode(h.conn.GetMaxPDULength())
	if err != nil {
		return err
	}

	for _, p := range pdus {
		if err := h.assoc.SendData(ctx, p); err != nil {
			return err
		}
	}

	return nil
}
