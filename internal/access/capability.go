package access

// Capability names one action a role may be granted. Names follow
// resource.action[.qualifier].
type Capability string

// Wildcard grants every capability.
const Wildcard Capability = "*"

const (
	UserGetAll  Capability = "user.get.all"
	UserGetByID Capability = "user.get.id"
	UserCreate  Capability = "user.create"
	UserUpdate  Capability = "user.update"
	UserDelete  Capability = "user.delete"

	RoleGetAll  Capability = "role.get.all"
	RoleGetByID Capability = "role.get.id"
	RoleCreate  Capability = "role.create"
	RoleUpdate  Capability = "role.update"
	RoleDelete  Capability = "role.delete"

	PermissionGetAll  Capability = "permission.get.all"
	PermissionGetByID Capability = "permission.get.id"
	PermissionCreate  Capability = "permission.create"
	PermissionUpdate  Capability = "permission.update"
	PermissionDelete  Capability = "permission.delete"

	YearGetAll  Capability = "year.get.all"
	YearGetByID Capability = "year.get.id"
	YearCreate  Capability = "year.create"
	YearUpdate  Capability = "year.update"
	YearDelete  Capability = "year.delete"

	IdeaGetAll          Capability = "idea.get.all"
	IdeaGetAllCSV       Capability = "idea.get.all.csv"
	IdeaGetAllDocuments Capability = "idea.get.all.documents"
	IdeaGetByID         Capability = "idea.get.id"
	IdeaCreate          Capability = "idea.create"
	IdeaDelete          Capability = "idea.delete"
	IdeaGetAllComment   Capability = "idea.get.all.comment"
	IdeaCreateComment   Capability = "idea.create.comment"
	IdeaGetReaction     Capability = "idea.get.reaction"
	IdeaCreateReaction  Capability = "idea.create.reaction"
	IdeaGetAllView      Capability = "idea.get.all.view"
	IdeaCreateView      Capability = "idea.create.view"

	CategoryGetAll  Capability = "category.get.all"
	CategoryGetByID Capability = "category.get.id"
	CategoryCreate  Capability = "category.create"
	CategoryUpdate  Capability = "category.update"
	CategoryDelete  Capability = "category.delete"

	DepartmentGetAll    Capability = "department.get.all"
	DepartmentGetByName Capability = "department.get.name"
	DepartmentCreate    Capability = "department.create"
	DepartmentUpdate    Capability = "department.update"
	DepartmentDelete    Capability = "department.delete"
)

var capabilities = []Capability{
	Wildcard,
	UserGetAll, UserGetByID, UserCreate, UserUpdate, UserDelete,
	RoleGetAll, RoleGetByID, RoleCreate, RoleUpdate, RoleDelete,
	PermissionGetAll, PermissionGetByID, PermissionCreate, PermissionUpdate, PermissionDelete,
	YearGetAll, YearGetByID, YearCreate, YearUpdate, YearDelete,
	IdeaGetAll, IdeaGetAllCSV, IdeaGetAllDocuments, IdeaGetByID, IdeaCreate, IdeaDelete,
	IdeaGetAllComment, IdeaCreateComment, IdeaGetReaction, IdeaCreateReaction,
	IdeaGetAllView, IdeaCreateView,
	CategoryGetAll, CategoryGetByID, CategoryCreate, CategoryUpdate, CategoryDelete,
	DepartmentGetAll, DepartmentGetByName, DepartmentCreate, DepartmentUpdate, DepartmentDelete,
}

var known = func() map[Capability]struct{} {
	m := make(map[Capability]struct{}, len(capabilities))
	for _, c := range capabilities {
		m[c] = struct{}{}
	}
	return m
}()

// Capabilities returns the full vocabulary, wildcard first.
func Capabilities() []Capability {
	out := make([]Capability, len(capabilities))
	copy(out, capabilities)
	return out
}

// Valid reports whether c belongs to the vocabulary.
func (c Capability) Valid() bool {
	_, ok := known[c]
	return ok
}

func (c Capability) String() string { return string(c) }
