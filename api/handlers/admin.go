package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"

	"github.com/crosslinktech/crosslink-relay/relay"
)

// Pausable is the admin surface shared by adapters and controllers.
type Pausable interface {
	Pause(caller common.Address) error
	Unpause(caller common.Address) error
}

type AdminBody struct {
	Caller string `json:"caller"`
}

type AdminHandler struct {
	adapters    map[common.Address]Pausable
	controllers map[common.Address]Pausable
}

func NewAdminHandler(adapters, controllers map[common.Address]Pausable) *AdminHandler {
	return &AdminHandler{
		adapters:    adapters,
		controllers: controllers,
	}
}

func (h *AdminHandler) HandleAdapterPause(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, h.adapters, "adapter", true)
}

func (h *AdminHandler) HandleAdapterUnpause(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, h.adapters, "adapter", false)
}

func (h *AdminHandler) HandleControllerPause(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, h.controllers, "controller", true)
}

func (h *AdminHandler) HandleControllerUnpause(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, h.controllers, "controller", false)
}

func (h *AdminHandler) handle(
	w http.ResponseWriter,
	r *http.Request,
	targets map[common.Address]Pausable,
	kind string,
	pause bool,
) {
	b := &AdminBody{}
	d := json.NewDecoder(r.Body)
	err := d.Decode(b)
	if err != nil {
		JSONError(w, fmt.Errorf("invalid request body: %s", err), http.StatusBadRequest)
		return
	}

	caller, err := parseAddress(b.Caller)
	if err != nil {
		JSONError(w, err, http.StatusBadRequest)
		return
	}

	vars := mux.Vars(r)
	address, err := parseAddress(vars[kind])
	if err != nil {
		JSONError(w, err, http.StatusBadRequest)
		return
	}
	target, ok := targets[address]
	if !ok {
		JSONError(w, fmt.Errorf("no %s registered at %s", kind, address), http.StatusNotFound)
		return
	}

	if pause {
		err = target.Pause(caller)
	} else {
		err = target.Unpause(caller)
	}
	if errors.Is(err, relay.ErrUnauthorised) {
		JSONError(w, err, http.StatusForbidden)
		return
	}
	if err != nil {
		JSONError(w, err, http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)
}
