package entity

// DocState estado de ciclo de vida compartido por todos los documentos de etapa.
// Trashed no se modela como estado: eliminar un borrador borra la fila
// (después de simular que ningún bucket queda negativo).
type DocState string

const (
	StateDraft     DocState = "Draft"
	StateSubmitted DocState = "Submitted"
	StateCancelled DocState = "Cancelled"
)
