package template

// Built-in bodies used when a product or category has neither an
// explicit template nor a reachable template URL.

const DefaultAccountBody = `<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto">
  <h2>Pesanan Berhasil</h2>
  <p>Halo {Email Pembeli},</p>
  <p>Terima kasih telah melakukan pembelian <b>{Nama Produk}</b>.</p>
  <p>ID Transaksi: <b>{Transaction ID}</b></p>
  <p>Simpan email ini sebagai bukti pembelian Anda.</p>
</div>`

const DefaultLinkBody = `<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto">
  <h2>Pesanan {{category_name}}</h2>
  <p>Halo {{buyer_email}},</p>
  <p>ID Transaksi: <b>{{transaction_id}}</b></p>
  {{items_list}}
  <p>Selamat menikmati.</p>
</div>`

const DefaultItemCard = `<div style="border:1px solid #e0e0e0;border-radius:8px;padding:12px;margin:8px 0">
  <p style="margin:0 0 4px"><b>{{item_name}}</b></p>
  <p style="margin:0"><a href="{{item_url}}">Buka Link</a></p>
</div>`
