// Package di 基于 samber/do 的基础设施注入，以及能力容器的固定装配表
//
// 两层容器：
//   - samber/do 管理基础设施（Config、Logger、Database、Redis），负责关闭顺序
//   - container.Container 管理业务能力（dao、metier），显式装配、急切启动
package di

import "github.com/samber/do/v2"

// Injector 类型别名
type Injector = do.Injector

// RootScope 类型别名
type RootScope = do.RootScope

// New 创建新的根注入器
var New = do.New
