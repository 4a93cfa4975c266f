package availability

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// Loader загружает договоры автомобиля и строит индекс
type Loader func(ctx context.Context, vehicleID int64) (*Index, error)

// ContractLister источник договоров автомобиля
type ContractLister interface {
	ListByVehicle(ctx context.Context, filter domain.VehicleContractsFilter) ([]*domain.Contract, error)
}

// LoaderFrom строит индекс по всем неотмененным договорам автомобиля из хранилища
func LoaderFrom(repo ContractLister) Loader {
	return func(ctx context.Context, vehicleID int64) (*Index, error) {
		contracts, err := repo.ListByVehicle(ctx, domain.VehicleContractsFilter{VehicleID: vehicleID})
		if err != nil {
			return nil, err
		}
		return Build(vehicleID, contracts), nil
	}
}

// Recorder метрики попаданий в кэш
type Recorder interface {
	CacheHit()
	CacheMiss()
}

// Cache кэш индексов по автомобилям.
// Используется только для чтения; создание договора всегда строит индекс заново из хранилища.
// Invalidate действует только внутри процесса, поэтому запись живет не дольше ttl:
// изменения, сделанные другим экземпляром сервиса, становятся видны после истечения ttl.
type Cache struct {
	mu      sync.RWMutex
	entries map[int64]*entry
	group   singleflight.Group
	rec     Recorder
	ttl     time.Duration
	now     func() time.Time
}

type entry struct {
	idx      *Index
	gen      uint64
	loadedAt time.Time
}

// NewCache создает пустой кэш. При ttl <= 0 записи не устаревают.
func NewCache(rec Recorder, ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[int64]*entry),
		rec:     rec,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get возвращает индекс из кэша или строит его через loader.
// Параллельные промахи по одному автомобилю выполняют loader один раз.
func (c *Cache) Get(ctx context.Context, vehicleID int64, load Loader) (*Index, error) {
	c.mu.RLock()
	e, ok := c.entries[vehicleID]
	c.mu.RUnlock()
	if ok && e.idx != nil && !c.expired(e) {
		c.hit()
		return e.idx, nil
	}
	c.miss()

	gen := c.generation(vehicleID)

	// Поколение входит в ключ: запросы после инвалидации не присоединяются к старой загрузке
	key := strconv.FormatInt(vehicleID, 10) + ":" + strconv.FormatUint(gen, 10)

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// Загрузку разделяют несколько запросов: отмена первого не должна прерывать остальные
		idx, err := load(context.WithoutCancel(ctx), vehicleID)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		// Если за время загрузки индекс инвалидировали, результат не сохраняем
		if cur, ok := c.entries[vehicleID]; !ok || cur.gen == gen {
			c.entries[vehicleID] = &entry{idx: idx, gen: gen, loadedAt: c.now()}
		}
		return idx, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*Index), nil
}

// Invalidate удаляет индекс автомобиля из кэша
func (c *Cache) Invalidate(vehicleID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var gen uint64
	if e, ok := c.entries[vehicleID]; ok {
		gen = e.gen
	}
	// Оставляем пустую запись со следующим поколением, чтобы отбросить загрузку, начатую до инвалидации
	c.entries[vehicleID] = &entry{gen: gen + 1}
}

// Len количество закэшированных индексов
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, e := range c.entries {
		if e.idx != nil {
			n++
		}
	}
	return n
}

func (c *Cache) expired(e *entry) bool {
	return c.ttl > 0 && c.now().Sub(e.loadedAt) >= c.ttl
}

func (c *Cache) generation(vehicleID int64) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if e, ok := c.entries[vehicleID]; ok {
		return e.gen
	}
	return 0
}

func (c *Cache) hit() {
	if c.rec != nil {
		c.rec.CacheHit()
	}
}

func (c *Cache) miss() {
	if c.rec != nil {
		c.rec.CacheMiss()
	}
}
