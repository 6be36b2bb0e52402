package entity

// Nombres de estado con significado operativo. La identidad del estado se decide por nombre,
// así que renombrar la fila en la tabla de estados rompe los filtros de devoluciones.
const (
	StatusCompleted = "Completado"
	StatusInProcess = "En proceso"
)

// Status estado con nombre, usado tanto por ProductInstance como por ProductMovement.
type Status struct {
	ID   int64
	Name string
}
