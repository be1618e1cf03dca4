package services

import (
	"fmt"
	"log"
	"time"

	"github.com/ferreirogomes/lastro/models"

	"github.com/google/uuid"
)

// IdentityService mantém a allowlist de conformidade e o papel de
// gerente de identidades. Consumido pelo TransferGuard.
type IdentityService struct {
	store Store
}

// NewIdentityService cria uma nova instância do serviço de identidades.
func NewIdentityService(store Store) *IdentityService {
	return &IdentityService{store: store}
}

// Bootstrap concede os papéis iniciais ao deployer e o insere verificado
// na allowlist, para que o primeiro token emitido seja utilizável de
// imediato. Idempotente: re-executar com o mesmo endereço é seguro.
func (s *IdentityService) Bootstrap(deployer string) error {
	if deployer == "" {
		return ErrNullAddress
	}
	for _, role := range []models.Role{models.RoleOwner, models.RoleVerifier, models.RoleIdentityManager} {
		if err := s.store.GrantRole(deployer, role); err != nil {
			return fmt.Errorf("falha ao conceder papel %s ao deployer: %w", role, err)
		}
	}
	if err := s.store.SaveIdentity(models.Identity{
		Address:   deployer,
		Verified:  true,
		CreatedAt: time.Now(),
	}); err != nil {
		return fmt.Errorf("falha ao verificar o deployer na allowlist: %w", err)
	}
	log.Printf("Deployer %s inicializado com papéis administrativos e verificado.", deployer)
	return nil
}

// AddVerifiedIdentity adiciona uma identidade à allowlist.
// Restrito ao gerente de identidades; falha se já verificada.
func (s *IdentityService) AddVerifiedIdentity(caller, address string) error {
	if err := requireRole(s.store, caller, models.RoleIdentityManager); err != nil {
		return err
	}
	if address == "" {
		return ErrNullAddress
	}
	existing, found, err := s.store.GetIdentity(address)
	if err != nil {
		return fmt.Errorf("falha ao consultar identidade %s: %w", address, err)
	}
	if found && existing.Verified {
		return ErrAlreadyVerified
	}
	if err := s.store.SaveIdentity(models.Identity{
		Address:   address,
		Verified:  true,
		CreatedAt: time.Now(),
	}); err != nil {
		return fmt.Errorf("falha ao salvar identidade %s: %w", address, err)
	}
	return s.appendIdentityEvent(models.EventIdentityAdded, address)
}

// RevokeVerifiedIdentity revoga a verificação de uma identidade.
// Não afeta tokens já em posse; apenas bloqueia novos recebimentos.
func (s *IdentityService) RevokeVerifiedIdentity(caller, address string) error {
	if err := requireRole(s.store, caller, models.RoleIdentityManager); err != nil {
		return err
	}
	existing, found, err := s.store.GetIdentity(address)
	if err != nil {
		return fmt.Errorf("falha ao consultar identidade %s: %w", address, err)
	}
	if !found || !existing.Verified {
		return ErrNotVerified
	}
	existing.Verified = false
	if err := s.store.SaveIdentity(existing); err != nil {
		return fmt.Errorf("falha ao revogar identidade %s: %w", address, err)
	}
	return s.appendIdentityEvent(models.EventIdentityRevoked, address)
}

// SetIdentityManager substitui o gerente de identidades (substitui, não
// adiciona). Restrito ao owner do registro.
func (s *IdentityService) SetIdentityManager(caller, address string) error {
	if err := requireRole(s.store, caller, models.RoleOwner); err != nil {
		return err
	}
	if address == "" {
		return ErrNullAddress
	}
	current, err := s.store.ListRoleHolders(models.RoleIdentityManager)
	if err != nil {
		return fmt.Errorf("falha ao listar gerentes atuais: %w", err)
	}
	for _, holder := range current {
		if err := s.store.RevokeRole(holder, models.RoleIdentityManager); err != nil {
			return fmt.Errorf("falha ao revogar gerente %s: %w", holder, err)
		}
	}
	if err := s.store.GrantRole(address, models.RoleIdentityManager); err != nil {
		return fmt.Errorf("falha ao conceder papel de gerente a %s: %w", address, err)
	}
	return s.appendIdentityEvent(models.EventIdentityManagerChanged, address)
}

// IsVerified informa se uma identidade está atualmente na allowlist.
func (s *IdentityService) IsVerified(address string) (bool, error) {
	identity, found, err := s.store.GetIdentity(address)
	if err != nil {
		return false, fmt.Errorf("falha ao consultar identidade %s: %w", address, err)
	}
	return found && identity.Verified, nil
}

// GetIdentity devolve o registro da allowlist para um endereço.
func (s *IdentityService) GetIdentity(address string) (models.Identity, bool, error) {
	return s.store.GetIdentity(address)
}

func (s *IdentityService) appendIdentityEvent(eventType, address string) error {
	payload, err := models.NewEventPayload(map[string]interface{}{"address": address})
	if err != nil {
		return fmt.Errorf("falha ao montar payload do evento: %w", err)
	}
	if err := s.store.AppendEvent(models.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Payload:   payload,
		CreatedAt: time.Now(),
	}); err != nil {
		return fmt.Errorf("falha ao registrar evento %s: %w", eventType, err)
	}
	return nil
}
