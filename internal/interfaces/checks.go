package interfaces

// Compile-time checks that concrete types satisfy their interfaces,
// catching missing methods before runtime.

import (
	"github.com/mrlokans/librarian/internal/database/loans"
	"github.com/mrlokans/librarian/internal/tasks"
)

// StatusReconciler implementations
var _ tasks.StatusReconciler = (*loans.Repository)(nil)
