package game

import (
	"errors"
	"fmt"
	"io/fs"

	"go.uber.org/zap"

	"github.com/gonewx/combatfx/pkg/config"
)

// AssetTable 启动时构建一次的只读资源表
//
// 所有系统共享同一份配方和招式表，运行期间不再修改。
type AssetTable struct {
	Recipes *config.RecipeTable
	Moves   *config.MoveTable
}

// DefaultAssetTable 只包含内置配方和招式
func DefaultAssetTable() *AssetTable {
	return &AssetTable{
		Recipes: config.DefaultRecipeTable(),
		Moves:   config.DefaultMoveTable(),
	}
}

// LoadAssetTable 按配置路径加载配方和招式
//
// 路径为空或文件不存在时使用内置数据并记录警告；文件存在但内容非法时返回错误。
//
// 参数：
//   - assets: [assets] 配置段
//   - logger: 可为 nil
func LoadAssetTable(assets config.AssetsConfig, logger *zap.Logger) (*AssetTable, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("assets")
	table := DefaultAssetTable()

	if assets.EffectsPath != "" {
		recipes, err := config.LoadEffectRecipes(assets.EffectsPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			logger.Warn("effect recipes not found, using built-in recipes", zap.String("path", assets.EffectsPath))
		case err != nil:
			return nil, fmt.Errorf("load assets: %w", err)
		default:
			table.Recipes = recipes
		}
	}

	if assets.MovesPath != "" {
		moves, err := config.LoadMoveTable(assets.MovesPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			logger.Warn("move table not found, using built-in moves", zap.String("path", assets.MovesPath))
		case err != nil:
			return nil, fmt.Errorf("load assets: %w", err)
		default:
			table.Moves = moves
		}
	}

	logger.Info("assets loaded",
		zap.Int("recipes", table.Recipes.Len()),
		zap.Int("moves", len(table.Moves.Kinds())))
	return table, nil
}
