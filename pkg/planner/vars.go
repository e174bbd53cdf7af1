package planner

import (
	"fmt"

	"github.com/paichan/paichan/pkg/milp"
)

// Role 决策变量角色
type Role string

const (
	RoleRegHours   Role = "reg_hours"   // 正常班工时
	RoleOTHours    Role = "ot_hours"    // 加班工时
	RoleLineOpen   Role = "line_open"   // 产线开启状态
	RoleTotalHours Role = "total_hours" // 实际计入生产的工时
	RoleLaborCost  Role = "labor_cost"  // 人工成本
	RoleQty        Role = "qty"         // 订单在产线上的排产数量
	RoleProdTime   Role = "time"        // 排产数量对应的生产时间
	RoleLineQty    Role = "line_qty"    // 产线单日总数量（展示用）
	RoleCumGap     Role = "cum_gap"     // 累计产出-需求缺口
	RoleAbsGap     Role = "abs_gap"     // 缺口绝对值
	RoleEarly      Role = "early"       // 提前量（库存）
	RoleLate       Role = "late"        // 延迟量（欠产）
)

// VarKey 变量的结构化索引：角色 + (日期, 产线, 订单)
// 变量声明时即携带索引，解码按键直查，绝不解析变量名
type VarKey struct {
	Role  Role
	Date  string
	Line  string
	Order string
}

// varTable 变量登记表
type varTable struct {
	byKey map[VarKey]*milp.Var
}

func newVarTable() *varTable {
	return &varTable{byKey: make(map[VarKey]*milp.Var)}
}

// declare 在模型中声明变量并登记索引
func (t *varTable) declare(m *milp.Model, key VarKey, vt milp.VarType, lower, upper float64) *milp.Var {
	v := m.NewVar(displayName(key), vt, lower, upper)
	t.byKey[key] = v
	return v
}

// get 按键取变量，未声明返回 nil
func (t *varTable) get(key VarKey) *milp.Var {
	return t.byKey[key]
}

// displayName 变量展示名，仅用于日志与调试输出
func displayName(k VarKey) string {
	switch {
	case k.Order != "" && k.Line != "":
		return fmt.Sprintf("%s[%s,%s,%s]", k.Role, k.Date, k.Order, k.Line)
	case k.Order != "":
		return fmt.Sprintf("%s[%s,%s]", k.Role, k.Date, k.Order)
	case k.Line != "":
		return fmt.Sprintf("%s[%s,%s]", k.Role, k.Date, k.Line)
	default:
		return fmt.Sprintf("%s[%s]", k.Role, k.Date)
	}
}
