package repo

// BaseColumns 生命周期列名，只在这里定义一次
type BaseColumns struct {
	ID        string
	CreatedAt string
	UpdatedAt string
	DeletedAt string
}

var baseColumns = BaseColumns{
	ID:        "id",
	CreatedAt: "created_at",
	UpdatedAt: "updated_at",
	DeletedAt: "deleted_at",
}

// Table 表描述：表名 + 生命周期列 + 只在存活行间唯一的列
type Table struct {
	BaseColumns
	Name   string
	Unique []string
}

func NewTable(name string, unique ...string) Table {
	return Table{BaseColumns: baseColumns, Name: name, Unique: unique}
}

// lifecycle 判断列是否属于生命周期列（不允许通过 UpdateFields 修改）
func (t Table) lifecycle(col string) bool {
	return col == t.ID || col == t.CreatedAt || col == t.DeletedAt
}

type roleTable struct {
	Table
	RoleName    string
	Description string
}

type userTable struct {
	Table
	Username string
	Email    string
	Status   string
	RoleID   string
}

type managerTable struct {
	Table
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Status    string
	RoleID    string
}

type clientTable struct {
	Table
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Company   string
	Status    string
}

type authTable struct {
	Table
	Username     string
	PasswordHash string
	OwnerID      string
	OwnerType    string
	RoleName     string
	LastLoginAt  string
}

var (
	RoleTable = roleTable{
		Table:       NewTable("roles", "name"),
		RoleName:    "name",
		Description: "description",
	}
	UserTable = userTable{
		Table:    NewTable("users", "username", "email"),
		Username: "username",
		Email:    "email",
		Status:   "status",
		RoleID:   "role_id",
	}
	ManagerTable = managerTable{
		Table:     NewTable("managers", "email"),
		FirstName: "first_name",
		LastName:  "last_name",
		Email:     "email",
		Phone:     "phone",
		Status:    "status",
		RoleID:    "role_id",
	}
	ClientTable = clientTable{
		Table:     NewTable("clients", "email"),
		FirstName: "first_name",
		LastName:  "last_name",
		Email:     "email",
		Phone:     "phone",
		Company:   "company",
		Status:    "status",
	}
	AuthTable = authTable{
		Table:        NewTable("auths", "username"),
		Username:     "username",
		PasswordHash: "password_hash",
		OwnerID:      "owner_id",
		OwnerType:    "owner_type",
		RoleName:     "role_name",
		LastLoginAt:  "last_login_at",
	}
)
