package order

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/google/uuid"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	domainorder "github.com/jhoicas/Pedidos-api/internal/domain/order"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

// UseCase motor de pedidos: crea y edita pedidos manteniendo consistentes, dentro de una
// sola transacción, warehouse_products.quantity, products.available_qty y products.sell.
type UseCase struct {
	txRunner  TxRunner
	sequence  repository.InvoiceSequence
	orderRepo repository.OrderRepository
	log       *logger.Logger
}

// NewUseCase construye el motor de pedidos.
// orderRepo se usa solo para lecturas fuera de transacción (listado y detalle).
func NewUseCase(
	txRunner TxRunner,
	sequence repository.InvoiceSequence,
	orderRepo repository.OrderRepository,
	log *logger.Logger,
) *UseCase {
	if log == nil {
		log = logger.NewNop()
	}
	return &UseCase{txRunner: txRunner, sequence: sequence, orderRepo: orderRepo, log: log}
}

// Create valida stock, reserva inventario y persiste el pedido con sus líneas.
// Si algo falla no queda ningún cambio.
func (uc *UseCase) Create(ctx context.Context, in dto.OrderRequest) (*dto.OrderResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	opID := uuid.New().String()

	// El identificador se obtiene antes de abrir la transacción del pedido.
	invoiceID, err := uc.sequence.Next(ctx)
	if err != nil {
		return nil, uc.fail(opID, "create", domain.Internal(fmt.Errorf("generar invoiceId: %w", err), "fallo al crear el pedido"))
	}

	var created *entity.Order
	err = uc.txRunner.Run(ctx, func(
		orderRepo repository.OrderRepository,
		ledgerRepo repository.LedgerRepository,
		productRepo repository.ProductRepository,
		warehouseRepo repository.WarehouseRepository,
	) error {
		lines := toLines(in.Products)
		if err := reserve(ctx, ledgerRepo, productRepo, warehouseRepo, in.WarehouseID, lines); err != nil {
			return err
		}
		o := &entity.Order{
			InvoiceID:   invoiceID,
			WarehouseID: in.WarehouseID,
			CustomerID:  in.CustomerID,
			InchargeID:  in.InchargeID,
			CreatedByID: in.CreatedByID,
			Products:    lines,
		}
		if err := orderRepo.Create(ctx, o); err != nil {
			return err
		}
		created = o
		return nil
	})
	if err != nil {
		return nil, uc.fail(opID, "create", domain.Internal(err, "fallo al crear el pedido"))
	}

	uc.log.Debug().
		Str("op_id", opID).
		Int64("order_id", created.ID).
		Str("invoice_id", created.InvoiceID).
		Int("lines", len(created.Products)).
		Msg("pedido creado")
	return toOrderResponse(created), nil
}

// Update reemplaza todas las líneas de un pedido y reajusta el inventario. Por cada producto
// (en orden de ProductID) libera lo reservado en la bodega original y reserva lo nuevo en la
// bodega del payload; en la misma bodega se libera antes de reservar, así bajar y volver a
// subir una cantidad no choca con el stock que el propio pedido ya tenía.
func (uc *UseCase) Update(ctx context.Context, orderID int64, in dto.OrderRequest) (*dto.OrderResponse, error) {
	if orderID <= 0 {
		return nil, domain.Invalid("id de pedido inválido")
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	opID := uuid.New().String()

	var updated *entity.Order
	err := uc.txRunner.Run(ctx, func(
		orderRepo repository.OrderRepository,
		ledgerRepo repository.LedgerRepository,
		productRepo repository.ProductRepository,
		warehouseRepo repository.WarehouseRepository,
	) error {
		existing, err := orderRepo.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.NotFound("pedido no encontrado")
		}

		lines := toLines(in.Products)
		m := stockMover{ledger: ledgerRepo, products: productRepo, warehouses: warehouseRepo}
		for _, mv := range planMoves(existing.WarehouseID, existing.Products, in.WarehouseID, lines) {
			if err := m.apply(ctx, mv); err != nil {
				return err
			}
		}

		if err := orderRepo.DeleteLines(ctx, orderID); err != nil {
			return err
		}
		existing.WarehouseID = in.WarehouseID
		existing.CustomerID = in.CustomerID
		existing.InchargeID = in.InchargeID
		if err := orderRepo.UpdateHeader(ctx, existing); err != nil {
			return err
		}
		if err := orderRepo.AddLines(ctx, orderID, lines); err != nil {
			return err
		}
		existing.Products = lines
		updated = existing
		return nil
	})
	if err != nil {
		return nil, uc.fail(opID, "update", domain.Internal(err, "fallo al editar el pedido"))
	}

	uc.log.Debug().
		Str("op_id", opID).
		Int64("order_id", updated.ID).
		Int("lines", len(updated.Products)).
		Msg("pedido editado")
	return toOrderResponse(updated), nil
}

// reserve descuenta del ledger la demanda de cada producto con un UPDATE condicional, en orden
// de ProductID, y mueve los contadores del producto. El chequeo y el descuento son la misma
// sentencia: dos pedidos concurrentes no pueden ver ambos "stock suficiente".
func reserve(
	ctx context.Context,
	ledgerRepo repository.LedgerRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	warehouseID int64,
	lines []entity.OrderProduct,
) error {
	m := stockMover{ledger: ledgerRepo, products: productRepo, warehouses: warehouseRepo}
	for _, d := range domainorder.AggregateDemand(lines) {
		if err := m.apply(ctx, stockMove{ProductID: d.ProductID, ToWarehouse: warehouseID, Reserved: d.Quantity}); err != nil {
			return err
		}
	}
	return nil
}

// stockMove cambio de reserva de un producto: Released vuelve a FromWarehouse y Reserved se
// descuenta de ToWarehouse. Cualquiera de los dos puede ser 0.
type stockMove struct {
	ProductID     int64
	FromWarehouse int64
	Released      int64
	ToWarehouse   int64
	Reserved      int64
}

// planMoves cruza la demanda vieja y la nueva por producto, ordenada por ProductID.
func planMoves(fromWarehouse int64, oldLines []entity.OrderProduct, toWarehouse int64, newLines []entity.OrderProduct) []stockMove {
	byProduct := map[int64]*stockMove{}
	get := func(productID int64) *stockMove {
		mv, ok := byProduct[productID]
		if !ok {
			mv = &stockMove{ProductID: productID, FromWarehouse: fromWarehouse, ToWarehouse: toWarehouse}
			byProduct[productID] = mv
		}
		return mv
	}
	for _, d := range domainorder.AggregateDemand(oldLines) {
		get(d.ProductID).Released = d.Quantity
	}
	for _, d := range domainorder.AggregateDemand(newLines) {
		get(d.ProductID).Reserved = d.Quantity
	}
	out := make([]stockMove, 0, len(byProduct))
	for _, id := range slices.Sorted(maps.Keys(byProduct)) {
		out = append(out, *byProduct[id])
	}
	return out
}

type stockMover struct {
	ledger     repository.LedgerRepository
	products   repository.ProductRepository
	warehouses repository.WarehouseRepository
}

// apply toca las filas de warehouse_products en orden de bodega y después la fila del
// producto. Con ese orden fijo (producto, bodega, contadores) dos transacciones que mueven
// los mismos productos nunca se esperan en ciclo.
func (m stockMover) apply(ctx context.Context, mv stockMove) error {
	release := func() error {
		if mv.Released == 0 {
			return nil
		}
		return m.ledger.Release(ctx, mv.FromWarehouse, mv.ProductID, mv.Released)
	}
	take := func() error {
		if mv.Reserved == 0 {
			return nil
		}
		ok, err := m.ledger.Reserve(ctx, mv.ToWarehouse, mv.ProductID, mv.Reserved)
		if err != nil {
			return err
		}
		if !ok {
			return insufficientStock(ctx, m.products, m.warehouses, mv.ToWarehouse, mv.ProductID)
		}
		return nil
	}
	steps := []func() error{release, take}
	if mv.ToWarehouse < mv.FromWarehouse {
		steps = []func() error{take, release}
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}

	if mv.Released > 0 {
		if err := m.ledger.RevertSale(ctx, mv.ProductID, mv.Released); err != nil {
			return err
		}
	}
	if mv.Reserved > 0 {
		if err := m.ledger.ApplySale(ctx, mv.ProductID, mv.Reserved); err != nil {
			return err
		}
	}
	return nil
}

// insufficientStock arma el error con nombres; las búsquedas son solo para el mensaje.
func insufficientStock(
	ctx context.Context,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	warehouseID, productID int64,
) error {
	var productName, warehouseName string
	if p, err := productRepo.GetByID(ctx, productID); err == nil && p != nil {
		productName = p.Name
	}
	if w, err := warehouseRepo.GetByID(ctx, warehouseID); err == nil && w != nil {
		warehouseName = w.Name
	}
	return domain.InsufficientStock(productName, warehouseName)
}

// fail registra el error según su tipo y lo devuelve.
func (uc *UseCase) fail(opID, op string, err error) error {
	if domain.IsClientError(err) {
		uc.log.Warn().Str("op_id", opID).Str("op", op).Str("reason", err.Error()).Msg("pedido rechazado")
		return err
	}
	uc.log.Error().Str("op_id", opID).Str("op", op).Err(err).Msg("pedido fallido")
	return err
}

func toLines(in []dto.OrderLineRequest) []entity.OrderProduct {
	lines := make([]entity.OrderProduct, 0, len(in))
	for _, p := range in {
		lines = append(lines, entity.OrderProduct{
			ProductID:     p.ProductID,
			Quantity:      p.Quantity,
			Price:         domainorder.Round2(p.Price),
			TexPercentage: domainorder.Round2(p.TexPercentage),
		})
	}
	return lines
}
