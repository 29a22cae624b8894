package auth

import "context"

// Snapshot es el resultado inmutable de una resolución de sesión. Los
// consumidores reciben copias, nunca una referencia mutable compartida.
type Snapshot struct {
	UserID        string `json:"user_id"`
	Email         string `json:"email"`
	DisplayName   string `json:"display_name,omitempty"`
	ClaimRole     string `json:"claim_role,omitempty"`
	ProfileRole   string `json:"profile_role,omitempty"`
	EffectiveRole string `json:"effective_role,omitempty"`
}

// SessionCache guarda snapshots de resolución por usuario con TTL corto para
// no golpear la DB en cada request autenticado. Un refresh explícito y todo
// cambio de rol o bloqueo evictan la entrada del usuario afectado.
type SessionCache interface {
	Get(ctx context.Context, userID string) (*Snapshot, bool)
	Set(ctx context.Context, userID string, snap *Snapshot)
	Evict(ctx context.Context, userID string)
}

// ResolveRole reconcilia las dos fuentes de verdad de rol en el rol efectivo
// de la sesión. El claim firmado tiene precedencia; el rol del perfil es el
// respaldo; sin ninguno de los dos el resultado es vacío (sin rol no es un
// estado de error, solo niega toda ruta protegida).
//
// blocked gana sobre todo lo demás: ok=false significa que la sesión debe
// terminarse y ningún rol debe observarse, ni siquiera transitoriamente.
func ResolveRole(claimRole, profileRole string, blocked bool) (role string, ok bool) {
	if blocked {
		return "", false
	}
	if claimRole != "" {
		return claimRole, true
	}
	if profileRole != "" {
		return profileRole, true
	}
	return "", true
}
