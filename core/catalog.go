package core

import "context"

// Catalog 是商品目录的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（catalog）实现
//   - 遵循依赖倒置原则：领域层定义接口，基础设施层实现接口
//
// 使用场景：
//   - 召回策略按 ID 反查商品（查不到的 ID 直接丢弃，不作为错误传播）
//   - 内容召回遍历全量候选商品
//
// 实现：
//   - catalog.Memory 实现此接口
type Catalog interface {
	// Name 返回目录后端名称（用于日志/监控）
	Name() string

	// Get 按 ID 查询商品；不存在时返回 ErrCatalogNotFound
	Get(ctx context.Context, id string) (*Product, error)

	// All 返回全量商品（内容召回的候选集）
	All(ctx context.Context) ([]*Product, error)
}

// Catalog 错误定义（使用统一的 DomainError）
var (
	// ErrCatalogNotFound 表示商品不存在
	ErrCatalogNotFound = NewDomainError(ModuleCatalog, ErrorCodeNotFound, "catalog: product not found")
)

// IsCatalogNotFound 检查错误是否为商品不存在
func IsCatalogNotFound(err error) bool {
	if err == nil {
		return false
	}
	domainErr := GetDomainError(err)
	if domainErr != nil && domainErr.Module == ModuleCatalog {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}
