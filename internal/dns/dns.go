// Copyright 2023 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package dns

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/blinklabs-io/lwmad/difficulty"
	"github.com/blinklabs-io/lwmad/internal/config"
	"github.com/blinklabs-io/lwmad/internal/indexer"
	"github.com/blinklabs-io/lwmad/internal/logging"
	"github.com/blinklabs-io/lwmad/internal/metrics"
	"github.com/blinklabs-io/lwmad/internal/state"

	"github.com/miekg/dns"
	"go.uber.org/zap"
)

const (
	recordNext       = "next"
	recordTip        = "tip"
	recordCumulative = "cumulative"
	recordBlock      = "block"
)

// Source provides the chain data served over DNS
type Source interface {
	NextDifficulty() (difficulty.Value, error)
	GetTip() (state.Block, error)
	GetBlock(height uint64) (state.Block, error)
}

type chainSource struct {
	*indexer.Indexer
	*state.State
}

// Handler answers TXT queries for difficulty records under a single zone
type Handler struct {
	zone     string
	ttl      uint32
	source   Source
	queryLog bool
}

func NewHandler(zone string, ttl uint32, source Source, queryLog bool) *Handler {
	return &Handler{
		zone:     dns.CanonicalName(zone),
		ttl:      ttl,
		source:   source,
		queryLog: queryLog,
	}
}

func Start() error {
	cfg := config.GetConfig()
	listenAddr := fmt.Sprintf("%s:%d", cfg.Dns.ListenAddress, cfg.Dns.ListenPort)
	handler := NewHandler(
		cfg.Dns.Zone,
		cfg.Dns.Ttl,
		chainSource{
			Indexer: indexer.GetIndexer(),
			State:   state.GetState(),
		},
		cfg.Logging.QueryLog,
	)
	// UDP listener
	serverUdp := &dns.Server{Addr: listenAddr, Net: "udp", Handler: handler, ReusePort: true}
	go startListener(serverUdp)
	// TCP listener
	serverTcp := &dns.Server{Addr: listenAddr, Net: "tcp", Handler: handler, ReusePort: true}
	go startListener(serverTcp)
	return nil
}

func startListener(server *dns.Server) {
	if err := server.ListenAndServe(); err != nil {
		logging.GetLogger().Fatalf("failed to start DNS listener: %s", err)
	}
}

func (h *Handler) ServeDNS(w dns.ResponseWriter, r *dns.Msg) {
	logger := logging.GetLogger()
	m := new(dns.Msg)
	m.SetReply(r)
	m.Authoritative = true

	if len(r.Question) != 1 {
		m.SetRcode(r, dns.RcodeFormatError)
		h.writeMsg(w, m, "")
		return
	}
	q := r.Question[0]
	if h.queryLog {
		logging.GetQueryLogger().Info(
			"query",
			zap.String("name", q.Name),
			zap.String("type", dns.Type(q.Qtype).String()),
			zap.String("class", dns.Class(q.Qclass).String()),
		)
	}

	name := dns.CanonicalName(q.Name)
	if !dns.IsSubDomain(h.zone, name) {
		m.SetRcode(r, dns.RcodeRefused)
		h.writeMsg(w, m, "")
		return
	}
	record, values, err := h.lookup(name)
	if err != nil {
		if errors.Is(err, state.ErrBlockNotFound) || errors.Is(err, errUnknownRecord) {
			m.SetRcode(r, dns.RcodeNameError)
		} else {
			logger.Errorf("failed to lookup %s: %s", q.Name, err)
			m.SetRcode(r, dns.RcodeServerFailure)
		}
		h.writeMsg(w, m, record)
		return
	}
	// Other record types get an empty answer
	if q.Qtype == dns.TypeTXT || q.Qtype == dns.TypeANY {
		txt := &dns.TXT{
			Hdr: dns.RR_Header{
				Name:   q.Name,
				Rrtype: dns.TypeTXT,
				Class:  dns.ClassINET,
				Ttl:    h.ttl,
			},
			Txt: values,
		}
		m.Answer = append(m.Answer, txt)
	}
	h.writeMsg(w, m, record)
}

func (h *Handler) writeMsg(w dns.ResponseWriter, m *dns.Msg, record string) {
	if record == "" {
		record = "unknown"
	}
	metrics.ObserveQuery(record, dns.RcodeToString[m.Rcode])
	if err := w.WriteMsg(m); err != nil {
		logging.GetLogger().Errorf("failed to write response: %s", err)
	}
}

var errUnknownRecord = errors.New("unknown record")

// lookup resolves a name within the zone to its TXT strings
func (h *Handler) lookup(name string) (string, []string, error) {
	rel := strings.TrimSuffix(strings.TrimSuffix(name, h.zone), ".")
	labels := dns.SplitDomainName(rel)
	switch {
	case len(labels) == 1 && labels[0] == recordNext:
		next, err := h.source.NextDifficulty()
		if err != nil {
			return recordNext, nil, err
		}
		return recordNext, []string{next.Hex()}, nil
	case len(labels) == 1 && labels[0] == recordTip:
		tip, err := h.source.GetTip()
		if err != nil {
			return recordTip, nil, err
		}
		return recordTip, []string{
			strconv.FormatUint(tip.Height, 10),
			tip.Hash.String(),
		}, nil
	case len(labels) == 1 && labels[0] == recordCumulative:
		tip, err := h.source.GetTip()
		if err != nil {
			return recordCumulative, nil, err
		}
		return recordCumulative, []string{tip.Cumulative.Hex()}, nil
	case len(labels) == 2 && labels[1] == recordBlock:
		height, err := strconv.ParseUint(labels[0], 10, 64)
		if err != nil {
			return recordBlock, nil, errUnknownRecord
		}
		block, err := h.source.GetBlock(height)
		if err != nil {
			return recordBlock, nil, err
		}
		return recordBlock, []string{block.Difficulty.Hex()}, nil
	}
	return "", nil, errUnknownRecord
}
