package rpc

import (
	"net"
	"net/rpc"
	"time"

	"github.com/wfunc/cardroom/logger"
	"github.com/wfunc/cardroom/models"
	"github.com/wfunc/cardroom/room"
	"github.com/wfunc/cardroom/services"
)

// Server manages the RPC listener.
type Server struct {
	listener net.Listener
	address  string
}

func NewServer(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  addr,
	}, nil
}

// Start begins listening for RPC requests.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if _, ok := err.(*net.OpError); ok {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go rpc.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// AdminService exposes operational queries over net/rpc.
type AdminService struct {
	registry *room.Registry
	records  *services.RecordService
}

func NewAdminService(registry *room.Registry, records *services.RecordService) *AdminService {
	return &AdminService{registry: registry, records: records}
}

type ListRoomsArgs struct{}

type RoomInfo struct {
	ID          string
	Phase       string
	PlayerCount int
	CreatedAt   time.Time
}

type ListRoomsReply struct {
	Rooms []RoomInfo
}

func (as *AdminService) ListRooms(args *ListRoomsArgs, reply *ListRoomsReply) error {
	for _, s := range as.registry.Summaries() {
		reply.Rooms = append(reply.Rooms, RoomInfo{
			ID:          s.ID,
			Phase:       s.Phase,
			PlayerCount: s.PlayerCount,
			CreatedAt:   s.CreatedAt,
		})
	}
	return nil
}

type PlayerStatsArgs struct {
	Nick string
}

type PlayerStatsReply struct {
	Stats models.PlayerStats
}

func (as *AdminService) GetPlayerStats(args *PlayerStatsArgs, reply *PlayerStatsReply) error {
	stats, err := as.records.GetPlayerStats(args.Nick)
	if err != nil {
		return err
	}
	reply.Stats = stats
	return nil
}
