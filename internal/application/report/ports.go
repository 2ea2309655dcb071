package report

import "context"

// Tope de registros que un reporte analítico lee del libro mayor: los rangos
// grandes se acotan por datos, no por cancelación cooperativa.
const maxAnalysisRecords = 50000

// Cache puerto opcional de caché de reportes (implementado sobre Redis).
// Un cache nil desactiva el caching sin tocar la lógica del reporte.
type Cache interface {
	// Get deserializa el valor en v y devuelve true si hubo hit.
	Get(ctx context.Context, key string, v any) bool
	Set(ctx context.Context, key string, v any)
}
