package services

import (
	"fmt"
	"log"
	"time"

	"github.com/ferreirogomes/lastro/models"

	"github.com/google/uuid"
)

// AssetRegistryService governa o ciclo de vida dos registros de ativos:
// quem pode registrar, verificar, congelar e reavaliar. O registro é o
// dono exclusivo dos campos do Asset; a posse do deed é externa.
type AssetRegistryService struct {
	store Store
	deeds DeedLedger
}

// NewAssetRegistryService cria o serviço de registro de ativos.
func NewAssetRegistryService(store Store, deeds DeedLedger) *AssetRegistryService {
	return &AssetRegistryService{store: store, deeds: deeds}
}

// RegisterAsset registra um novo ativo em Pending, aloca o próximo id
// sequencial (a partir de 0, nunca reutilizado) e emite o deed para o
// dono informado. Restrito ao owner do registro.
func (s *AssetRegistryService) RegisterAsset(
	caller, ownerAddress, metadataRef, propertyAddress string,
	appraisalValue uint64, legalDocsHash string,
) (models.Asset, error) {
	if err := requireRole(s.store, caller, models.RoleOwner); err != nil {
		return models.Asset{}, err
	}
	if ownerAddress == "" {
		return models.Asset{}, ErrNullAddress
	}

	id, err := s.store.NextAssetID()
	if err != nil {
		return models.Asset{}, fmt.Errorf("falha ao alocar id de ativo: %w", err)
	}

	now := time.Now()
	asset := models.Asset{
		ID:              id,
		PropertyAddress: propertyAddress,
		MetadataRef:     metadataRef,
		AppraisalValue:  appraisalValue,
		LegalDocsHash:   legalDocsHash,
		Status:          models.AssetStatusPending,
		CreatedAt:       now,
		LastUpdated:     now,
	}
	if err := s.store.SaveAsset(asset); err != nil {
		return models.Asset{}, fmt.Errorf("falha ao salvar registro do ativo: %w", err)
	}
	if err := s.deeds.MintDeed(ownerAddress, id); err != nil {
		// O registro ficou sem deed; o listener de reconciliação aponta a
		// divergência, mas a chamada falha por inteiro para o chamador.
		log.Printf("ERRO: registro %d salvo mas emissão do deed falhou: %v", id, err)
		return models.Asset{}, fmt.Errorf("falha ao emitir deed do ativo %d: %w", id, err)
	}

	if err := s.appendAssetEvent(models.EventAssetRegistered, map[string]interface{}{
		"id":               id,
		"owner":            ownerAddress,
		"property_address": propertyAddress,
	}); err != nil {
		return models.Asset{}, err
	}
	log.Printf("Ativo %d registrado em %s para %s.", id, propertyAddress, ownerAddress)
	return asset, nil
}

// VerifyAsset avança um ativo de Pending para Active. Restrito ao
// verificador; falha se o deed não tem dono atual ou se o status não é
// exatamente Pending.
func (s *AssetRegistryService) VerifyAsset(caller string, id uint64) (models.Asset, error) {
	if err := requireRole(s.store, caller, models.RoleVerifier); err != nil {
		return models.Asset{}, err
	}
	asset, err := s.requireExistingAsset(id)
	if err != nil {
		return models.Asset{}, err
	}
	if !asset.Status.CanTransitionTo(models.AssetStatusActive) {
		return models.Asset{}, ErrInvalidTransition
	}
	asset.Status = models.AssetStatusActive
	asset.LastUpdated = time.Now()
	if err := s.store.SaveAsset(asset); err != nil {
		return models.Asset{}, fmt.Errorf("falha ao salvar verificação do ativo %d: %w", id, err)
	}
	if err := s.appendAssetEvent(models.EventAssetVerified, map[string]interface{}{"id": id}); err != nil {
		return models.Asset{}, err
	}
	return asset, nil
}

// FreezeAsset congela um ativo Active (estado terminal, sem transição de
// saída). Restrito ao owner do registro.
func (s *AssetRegistryService) FreezeAsset(caller string, id uint64) (models.Asset, error) {
	if err := requireRole(s.store, caller, models.RoleOwner); err != nil {
		return models.Asset{}, err
	}
	asset, found, err := s.store.GetAsset(id)
	if err != nil {
		return models.Asset{}, fmt.Errorf("falha ao consultar ativo %d: %w", id, err)
	}
	if !found {
		return models.Asset{}, ErrAssetNotFound
	}
	if !asset.Status.CanTransitionTo(models.AssetStatusFrozen) {
		return models.Asset{}, ErrInvalidTransition
	}
	asset.Status = models.AssetStatusFrozen
	asset.LastUpdated = time.Now()
	if err := s.store.SaveAsset(asset); err != nil {
		return models.Asset{}, fmt.Errorf("falha ao salvar congelamento do ativo %d: %w", id, err)
	}
	if err := s.appendAssetEvent(models.EventAssetFrozen, map[string]interface{}{"id": id}); err != nil {
		return models.Asset{}, err
	}
	return asset, nil
}

// UpdateAppraisal atualiza o valor de avaliação independente do status
// (inclusive congelado: a reavaliação ainda pode ser registrada).
// Comportamento herdado: não toca LastUpdated.
func (s *AssetRegistryService) UpdateAppraisal(caller string, id uint64, newValue uint64) (models.Asset, error) {
	if err := requireRole(s.store, caller, models.RoleOwner); err != nil {
		return models.Asset{}, err
	}
	asset, err := s.requireExistingAsset(id)
	if err != nil {
		return models.Asset{}, err
	}
	asset.AppraisalValue = newValue
	if err := s.store.SaveAsset(asset); err != nil {
		return models.Asset{}, fmt.Errorf("falha ao salvar reavaliação do ativo %d: %w", id, err)
	}
	if err := s.appendAssetEvent(models.EventAppraisalUpdated, map[string]interface{}{
		"id":              id,
		"appraisal_value": newValue,
	}); err != nil {
		return models.Asset{}, err
	}
	return asset, nil
}

// SetVerifier substitui o verificador (substitui, não adiciona).
// Restrito ao owner do registro; falha com endereço nulo.
func (s *AssetRegistryService) SetVerifier(caller, newVerifier string) error {
	if err := requireRole(s.store, caller, models.RoleOwner); err != nil {
		return err
	}
	if newVerifier == "" {
		return ErrNullAddress
	}
	current, err := s.store.ListRoleHolders(models.RoleVerifier)
	if err != nil {
		return fmt.Errorf("falha ao listar verificadores atuais: %w", err)
	}
	for _, holder := range current {
		if err := s.store.RevokeRole(holder, models.RoleVerifier); err != nil {
			return fmt.Errorf("falha ao revogar verificador %s: %w", holder, err)
		}
	}
	if err := s.store.GrantRole(newVerifier, models.RoleVerifier); err != nil {
		return fmt.Errorf("falha ao conceder papel de verificador a %s: %w", newVerifier, err)
	}
	return s.appendAssetEvent(models.EventVerifierChanged, map[string]interface{}{"verifier": newVerifier})
}

// GetAsset devolve o registro de um ativo pelo id.
func (s *AssetRegistryService) GetAsset(id uint64) (models.Asset, bool, error) {
	return s.store.GetAsset(id)
}

// requireExistingAsset checa a existência pelo dono atual do deed e
// devolve o registro correspondente.
func (s *AssetRegistryService) requireExistingAsset(id uint64) (models.Asset, error) {
	_, hasOwner, err := s.deeds.OwnerOf(id)
	if err != nil {
		return models.Asset{}, fmt.Errorf("falha ao consultar dono do deed %d: %w", id, err)
	}
	if !hasOwner {
		return models.Asset{}, ErrAssetNotFound
	}
	asset, found, err := s.store.GetAsset(id)
	if err != nil {
		return models.Asset{}, fmt.Errorf("falha ao consultar ativo %d: %w", id, err)
	}
	if !found {
		return models.Asset{}, ErrAssetNotFound
	}
	return asset, nil
}

func (s *AssetRegistryService) appendAssetEvent(eventType string, fields map[string]interface{}) error {
	payload, err := models.NewEventPayload(fields)
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
